package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"storefront-api/internal/application"
	"storefront-api/internal/domain"

	"github.com/go-chi/chi/v5"
)

// multipart overhead on top of the file limit
const formSlack = 1 << 20

func parseForm(w http.ResponseWriter, r *http.Request, maxFiles int) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxFiles)*application.MaxUploadSize+formSlack)
	if err := r.ParseMultipartForm(application.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Invalid("Upload exceeds the %d MB limit", application.MaxUploadSize>>20)
		}
		return domain.Invalid("Invalid multipart form: %v", err)
	}
	return nil
}

func formFile(r *http.Request, field string) (application.UploadFile, func(), error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return application.UploadFile{}, func() {}, domain.Invalid("No file uploaded in field %q", field)
	}
	return application.UploadFile{Name: hdr.Filename, Size: hdr.Size, Content: f}, func() { f.Close() }, nil
}

func openAll(headers []*multipart.FileHeader) ([]application.UploadFile, func(), error) {
	files := make([]application.UploadFile, 0, len(headers))
	closers := make([]func(), 0, len(headers))
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	for _, hdr := range headers {
		f, err := hdr.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, domain.Invalid("Failed to open %s", hdr.Filename)
		}
		closers = append(closers, func() { f.Close() })
		files = append(files, application.UploadFile{Name: hdr.Filename, Size: hdr.Size, Content: f})
	}
	return files, closeAll, nil
}

func uploadSingleHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(w, r, 1); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		file, done, err := formFile(r, "image")
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		defer done()

		stored, err := d.Uploads.Single(r.Context(), file)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusCreated, "File uploaded", stored)
	}
}

func uploadMultipleHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(w, r, application.MaxUploadFiles); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		files, done, err := openAll(r.MultipartForm.File["images"])
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		defer done()

		stored, err := d.Uploads.Multiple(r.Context(), files)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusCreated, "Files uploaded", stored)
	}
}

func uploadCustomizationHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(w, r, 1); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		file, done, err := formFile(r, "image")
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		defer done()

		stored, err := d.Uploads.Customization(r.Context(), file)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusCreated, "File uploaded", stored)
	}
}

func deleteUploadHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Uploads.Delete(r.Context(), chi.URLParam(r, "*")); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondMessage(w, http.StatusOK, true, "File deleted")
	}
}
