package pdf

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info describes a structurally valid PDF on disk.
type Info struct {
	Pages int
}

// Inspector checks that a stored file is a well-formed PDF.
type Inspector interface {
	Inspect(path string) (Info, error)
}

// FileInspector validates PDFs with relaxed validation, matching what
// common PDF producers actually emit.
type FileInspector struct {
	conf *model.Configuration
}

func NewFileInspector() *FileInspector {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return &FileInspector{conf: cfg}
}

func (i *FileInspector) Inspect(path string) (Info, error) {
	if err := api.ValidateFile(path, i.conf); err != nil {
		return Info{}, fmt.Errorf("validate pdf: %w", err)
	}
	pages, err := api.PageCountFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("count pdf pages: %w", err)
	}
	return Info{Pages: pages}, nil
}
