package blobclient

import "preview-gateway/internal/apperror"

// Classify maps a fetch outcome to the typed error table spec §4.5/§7
// describe: 2xx/3xx pass through (nil), 4xx maps to ItemNotFound (404) or
// GenericStorageError (other 4xx, propagating the original code), 5xx
// maps to StorageUnavailable (502), and any transport-level error
// (timeout or otherwise) also maps to StorageUnavailable (502).
func Classify(result *Result, err error) *apperror.Error {
	if err != nil {
		return apperror.StorageUnavailable()
	}
	switch {
	case result.StatusCode < 400:
		return nil
	case result.StatusCode == 404:
		return apperror.ItemNotFound()
	case result.StatusCode < 500:
		return apperror.GenericStorage(result.StatusCode, string(result.Body))
	default:
		return apperror.StorageUnavailable()
	}
}
