package main

import (
	"mime/multipart"

	"example.com/pdf-pairmerge/internal/pairmerge"
)

// ======================= CONFIG =======================

const (
	fieldPartA = "part_a" // multipart field for Part A uploads
	fieldPartB = "part_b" // multipart field for Part B uploads

	contentTypePDF = "application/pdf"

	// multipart bodies above this size spill to temp files
	multipartMemory = 32 << 20
)

// ======================= DATA TYPES ===================

// mergeForm is the parsed POST /merge upload.
type mergeForm struct {
	PartA []*multipart.FileHeader `json:"part_a"`
	PartB []*multipart.FileHeader `json:"part_b"`
}

type archiveDTO struct {
	Name string `json:"name"`
	MIME string `json:"mime"`
	Size int    `json:"size"`
	Data []byte `json:"data"` // base64 in JSON
}

type mergeResponse struct {
	OK      int                `json:"ok"`
	Records []pairmerge.Record `json:"records"`
	Summary pairmerge.Summary  `json:"summary"`
	Archive archiveDTO         `json:"archive"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// cliReport is what `pairmerge merge --format json|yaml` prints.
type cliReport struct {
	Records []pairmerge.Record `json:"records" yaml:"records"`
	Summary pairmerge.Summary  `json:"summary" yaml:"summary"`
	Archive string             `json:"archive,omitempty" yaml:"archive,omitempty"`
}
