package dispatch

import (
	"github.com/gin-gonic/gin"

	"preview-gateway/internal/apperror"
	"preview-gateway/internal/geometry"
	"preview-gateway/internal/pdfengine"
	"preview-gateway/internal/raster"
	"preview-gateway/internal/utils"
)

// DocByID handles GET /{name}/{doc}/{id}/{ver}/.
func (d *Dispatcher) DocByID(c *gin.Context) {
	if !d.cfg.EnableDocumentPreview {
		fail(c, apperror.New(apperror.KindDocPreviewDisabled, apperror.MsgDocPreviewDisabled))
		return
	}

	id, appErr := pathID(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}
	version, appErr := pathVersion(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}
	owner, appErr := queryServiceType(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}
	first, last, appErr := queryPageRange(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}

	data, appErr := d.fetchBlob(c, id, version, owner)
	if appErr != nil {
		fail(c, appErr)
		return
	}

	pdfBytes := d.office.ConvertToPdf(c.Request.Context(), data, first, last)
	utils.SendArtifact(c, "application/pdf", pdfBytes)
}

// DocUpload handles POST /{name}/{doc}/.
func (d *Dispatcher) DocUpload(c *gin.Context) {
	if !d.cfg.EnableDocumentPreview {
		fail(c, apperror.New(apperror.KindDocPreviewDisabled, apperror.MsgDocPreviewDisabled))
		return
	}

	first, last, appErr := queryPageRange(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}
	data, appErr := readUploadedFile(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}

	pdfBytes := d.office.ConvertToPdf(c.Request.Context(), data, first, last)
	utils.SendArtifact(c, "application/pdf", pdfBytes)
}

// DocThumbnailByID handles GET /{name}/{doc}/{id}/{ver}/{area}/thumbnail/.
// The composition is office bridge to PDF -> PDF engine rasterize page 0
// -> raster codec thumbnail, cropped with a TOP anchor like the PDF
// thumbnail endpoints.
func (d *Dispatcher) DocThumbnailByID(c *gin.Context) {
	if !d.cfg.EnableDocumentThumbnail {
		fail(c, apperror.New(apperror.KindDocThumbnailDisabled, apperror.MsgDocThumbnailDisabled))
		return
	}

	id, appErr := pathID(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}
	version, appErr := pathVersion(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}
	width, height, appErr := pathArea(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}
	owner, appErr := queryServiceType(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}
	shape, appErr := queryShape(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}
	quality, appErr := queryQuality(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}
	outFormat, appErr := queryOutFormat(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}

	data, appErr := d.fetchBlob(c, id, version, owner)
	if appErr != nil {
		fail(c, appErr)
		return
	}

	d.docThumbnail(c, data, width, height, shape, quality, outFormat)
}

// DocThumbnailUpload handles POST /{name}/{doc}/{area}/thumbnail/.
func (d *Dispatcher) DocThumbnailUpload(c *gin.Context) {
	if !d.cfg.EnableDocumentThumbnail {
		fail(c, apperror.New(apperror.KindDocThumbnailDisabled, apperror.MsgDocThumbnailDisabled))
		return
	}

	width, height, appErr := pathArea(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}
	shape, appErr := queryShape(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}
	quality, appErr := queryQuality(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}
	outFormat, appErr := queryOutFormat(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}
	data, appErr := readUploadedFile(c)
	if appErr != nil {
		fail(c, appErr)
		return
	}

	d.docThumbnail(c, data, width, height, shape, quality, outFormat)
}

func (d *Dispatcher) docThumbnail(c *gin.Context, raw []byte, width, height int, shape raster.Shape, quality raster.Quality, outFormat raster.OutFormat) {
	pdfBytes := d.office.ConvertToPdf(c.Request.Context(), raw, 1, 0)
	rasterized, appErr := pdfengine.Rasterize(c.Request.Context(), pdfBytes, 0, "PNG")
	if appErr != nil {
		fail(c, appErr)
		return
	}

	req := raster.Request{
		Width: width, Height: height,
		Quality: quality, OutFormat: outFormat,
		Mode: raster.ModeThumbnail, Shape: shape, Crop: true, CropAnchor: geometry.AnchorTop,
	}
	out := raster.Process(rasterized, req, d.cfg.MinimumResolution)
	utils.SendArtifact(c, raster.ContentType(outFormat), out)
}
