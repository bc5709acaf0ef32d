package dispatch

import (
	"preview-gateway/internal/geometry"
	"preview-gateway/internal/raster"
	"preview-gateway/internal/utils"

	"github.com/gin-gonic/gin"
)

// PreviewByID handles GET /{name}/{image}/{id}/{ver}/{area}/.
func (d *Dispatcher) PreviewByID(c *gin.Context) {
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

	crop := queryCrop(c)
	req := raster.Request{
		Width: width, Height: height,
		Quality: quality, OutFormat: outFormat,
		Mode: raster.ModePreview, Crop: crop, CropAnchor: geometry.AnchorCenter,
	}
	out := raster.Process(data, req, d.cfg.MinimumResolution)
	utils.SendArtifact(c, raster.ContentType(outFormat), out)
}

// PreviewUpload handles POST /{name}/{image}/{area}/.
func (d *Dispatcher) PreviewUpload(c *gin.Context) {
	width, height, appErr := pathArea(c)
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

	crop := queryCrop(c)
	req := raster.Request{
		Width: width, Height: height,
		Quality: quality, OutFormat: outFormat,
		Mode: raster.ModePreview, Crop: crop, CropAnchor: geometry.AnchorCenter,
	}
	out := raster.Process(data, req, d.cfg.MinimumResolution)
	utils.SendArtifact(c, raster.ContentType(outFormat), out)
}

// ThumbnailByID handles GET /{name}/{image}/{id}/{ver}/{area}/thumbnail/.
func (d *Dispatcher) ThumbnailByID(c *gin.Context) {
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

	req := raster.Request{
		Width: width, Height: height,
		Quality: quality, OutFormat: outFormat,
		Mode: raster.ModeThumbnail, Shape: shape, Crop: true, CropAnchor: geometry.AnchorCenter,
	}
	out := raster.Process(data, req, d.cfg.MinimumResolution)
	utils.SendArtifact(c, raster.ContentType(outFormat), out)
}

// ThumbnailUpload handles POST /{name}/{image}/{area}/thumbnail/.
func (d *Dispatcher) ThumbnailUpload(c *gin.Context) {
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

	req := raster.Request{
		Width: width, Height: height,
		Quality: quality, OutFormat: outFormat,
		Mode: raster.ModeThumbnail, Shape: shape, Crop: true, CropAnchor: geometry.AnchorCenter,
	}
	out := raster.Process(data, req, d.cfg.MinimumResolution)
	utils.SendArtifact(c, raster.ContentType(outFormat), out)
}
