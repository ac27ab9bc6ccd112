package pipeline

import (
	apperrors "github.com/matzehuels/courseflow/pkg/errors"
	"github.com/matzehuels/courseflow/pkg/graph"
	"github.com/matzehuels/courseflow/pkg/render"
	"github.com/matzehuels/courseflow/pkg/render/nodelink"
	"github.com/matzehuels/courseflow/pkg/render/svg"
)

// Render generates output artifacts for f in the requested formats.
func Render(f graph.Frame, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	dotDoc := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(f, nodelink.Options{Detailed: opts.Detailed})
		}
		return dot
	}
	var doc []byte
	svgDoc := func() ([]byte, error) {
		if doc != nil {
			return doc, nil
		}
		if opts.Graphviz {
			var err error
			doc, err = nodelink.RenderSVG(dotDoc())
			return doc, err
		}
		doc = svg.Render(f, SVGOptions(opts)...)
		return doc, nil
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case graph.FormatJSON:
			data, err = graph.MarshalFrame(f)
		case graph.FormatSVG:
			data, err = svgDoc()
		case graph.FormatDOT:
			data = []byte(dotDoc())
		case graph.FormatPNG:
			if opts.Graphviz {
				data, err = nodelink.RenderPNG(dotDoc(), opts.PNGScale)
				break
			}
			if data, err = svgDoc(); err == nil {
				data, err = render.ToPNG(data, opts.PNGScale)
			}
		case graph.FormatPDF:
			if opts.Graphviz {
				data, err = nodelink.RenderPDF(dotDoc())
				break
			}
			if data, err = svgDoc(); err == nil {
				data, err = render.ToPDF(data)
			}
		default:
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "unsupported format: %s", format)
		}

		if err != nil {
			code := apperrors.GetCode(err)
			if code == "" {
				code = apperrors.ErrCodeInternal
			}
			return nil, apperrors.Wrap(code, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// SVGOptions maps pipeline options onto SVG renderer options.
func SVGOptions(opts Options) []svg.Option {
	var out []svg.Option
	if opts.Interactive {
		out = append(out, svg.WithInteraction())
	}
	if opts.Titles {
		out = append(out, svg.WithTitles())
	}
	if opts.MaxLabel > 0 {
		out = append(out, svg.WithMaxLabel(opts.MaxLabel))
	}
	return out
}
