package main

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"example.com/pdf-pairmerge/internal/middleware"
	"example.com/pdf-pairmerge/internal/pairmerge"
)

// app carries what the handlers need for one server.
type app struct {
	pipeline       *pairmerge.Pipeline
	maxUploadBytes int64
	log            *slog.Logger
}

func newRouter(a *app) http.Handler {
	r := chi.NewRouter()
	r.Get("/", a.handleIndex)
	r.Post("/merge", a.handleMerge)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func (a *app) handleIndex(w http.ResponseWriter, r *http.Request) {
	archive := a.pipeline.ArchiveName
	if archive == "" {
		archive = pairmerge.ArchiveName
	}
	data := struct {
		FieldA, FieldB, Accept, ArchiveName string
	}{fieldPartA, fieldPartB, ".pdf," + contentTypePDF, archive}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, data); err != nil {
		a.log.Error("render index", "error", err)
	}
}

func (a *app) handleMerge(w http.ResponseWriter, r *http.Request) {
	log := a.log.With("request_id", middleware.RequestIDFrom(r.Context()))

	r.Body = http.MaxBytesReader(w, r.Body, a.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large", nil)
			return
		}
		writeError(w, http.StatusBadRequest, "bad request: expected multipart form upload", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := mergeForm{
		PartA: r.MultipartForm.File[fieldPartA],
		PartB: r.MultipartForm.File[fieldPartB],
	}
	if err := form.Validate(); err != nil {
		fields := fieldErrors(err)
		log.Info("rejected upload", "fields", sortedKeys(fields))
		writeError(w, http.StatusBadRequest, "only PDF files can be merged", fields)
		return
	}

	res, err := a.pipeline.Run(r.Context(), uploads(form.PartA), uploads(form.PartB))
	switch {
	case errors.Is(err, pairmerge.ErrInputIncomplete):
		writeError(w, http.StatusBadRequest, "upload at least one PDF to both Part A and Part B", nil)
		return
	case err != nil:
		var pkgErr *pairmerge.PackagingError
		if errors.As(err, &pkgErr) {
			writeError(w, http.StatusInternalServerError, "could not build the archive: "+pkgErr.Error(), nil)
			return
		}
		// client went away mid-run
		log.Warn("merge aborted", "error", err)
		writeError(w, http.StatusServiceUnavailable, "merge aborted", nil)
		return
	}

	// raw archive for scripted clients; per-file records stay in the JSON mode
	if r.URL.Query().Get("format") == "zip" {
		w.Header().Set("Content-Type", pairmerge.ArchiveMIME)
		w.Header().Set("Content-Disposition", `attachment; filename="`+res.ArchiveName+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Archive)))
		w.Header().Set("X-Merged-Count", strconv.Itoa(res.Summary.Merged))
		w.Header().Set("X-Failed-Count", strconv.Itoa(res.Summary.Failed))
		w.Header().Set("X-Skipped-Count", strconv.Itoa(res.Summary.Skipped()))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.Archive)
		return
	}

	writeJSON(w, http.StatusOK, mergeResponse{
		OK:      1,
		Records: res.Records,
		Summary: res.Summary,
		Archive: archiveDTO{
			Name: res.ArchiveName,
			MIME: pairmerge.ArchiveMIME,
			Size: len(res.Archive),
			Data: res.Archive,
		},
	})
}
