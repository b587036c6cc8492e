package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"example.com/pdf-pairmerge/internal/pairmerge"
)

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// baseName flattens an uploaded filename: browsers may send a relative
// path, and archive entries must not nest.
func baseName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	b := path.Base(name)
	if b == "." || b == "/" {
		return ""
	}
	return b
}

func isPDFName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// isPDFUpload accepts a part whose name ends in .pdf and whose declared
// content type, if any, is PDF or generic binary.
func isPDFUpload(fh *multipart.FileHeader) bool {
	if !isPDFName(baseName(fh.Filename)) {
		return false
	}
	ct := strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type")))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case "", contentTypePDF, "application/x-pdf", "application/octet-stream":
		return true
	}
	return false
}

// pdfOnly is an ozzo rule over a slice of uploads.
var pdfOnly = validation.By(func(value interface{}) error {
	files, _ := value.([]*multipart.FileHeader)
	var bad []string
	for _, fh := range files {
		if !isPDFUpload(fh) {
			bad = append(bad, fh.Filename)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("only PDF files are accepted: %s", strings.Join(bad, ", "))
	}
	return nil
})

func (f *mergeForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.PartA, pdfOnly),
		validation.Field(&f.PartB, pdfOnly),
	)
}

// fieldErrors flattens ozzo errors into a field -> message map.
func fieldErrors(err error) map[string]string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil
	}
	out := make(map[string]string, len(errs))
	for field, e := range errs {
		out[field] = e.Error()
	}
	return out
}

// uploads turns multipart headers into pipeline inputs.
func uploads(files []*multipart.FileHeader) []pairmerge.UploadedFile {
	out := make([]pairmerge.UploadedFile, 0, len(files))
	for _, fh := range files {
		out = append(out, pairmerge.UploadedFile{
			Name: baseName(fh.Filename),
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, fields map[string]string) {
	writeJSON(w, status, errorResponse{Error: msg, Fields: fields})
}

// sortedKeys is used to keep validation messages stable in logs.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
