package batch

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mt-loc-tools/internal/atlas"
	"mt-loc-tools/internal/charset"
	"mt-loc-tools/internal/gfd"
	"mt-loc-tools/internal/postprocess"
	"mt-loc-tools/internal/raster"
	"mt-loc-tools/internal/tex"
	"mt-loc-tools/internal/texture"
)

// FontBase returns a descriptor's file name without directory or .gfd.
func FontBase(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// DumpFont writes <base>_header.bin and <base>_map.csv for the
// descriptor at path into outDir.
func DumpFont(path, outDir string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".gfd") {
		return "", fmt.Errorf("batch: %s is not a .gfd file", path)
	}
	f, err := gfd.ReadFile(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("batch: %w", err)
	}
	base := FontBase(path)
	if err := os.WriteFile(filepath.Join(outDir, base+"_header.bin"), f.EncodeHeader(), 0644); err != nil {
		return "", fmt.Errorf("batch: %w", err)
	}

	csvPath := filepath.Join(outDir, base+"_map.csv")
	out, err := os.Create(csvPath)
	if err != nil {
		return "", fmt.Errorf("batch: %w", err)
	}
	if err := f.WriteCSV(out); err != nil {
		out.Close()
		return "", fmt.Errorf("batch: write %s: %w", csvPath, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("batch: %w", err)
	}
	return csvPath, nil
}

// RepackFont rebuilds <base>.gfd in outDir from the header template and
// glyph map written by DumpFont.
func RepackFont(resDir, base, outDir string) (string, error) {
	f, err := readHeaderTemplate(resDir, base)
	if err != nil {
		return "", err
	}
	csvPath := filepath.Join(resDir, base+"_map.csv")
	in, err := os.Open(csvPath)
	if err != nil {
		return "", fmt.Errorf("batch: %w", err)
	}
	defer in.Close()
	if f.Glyphs, err = gfd.ReadCSV(in); err != nil {
		return "", fmt.Errorf("%s: %w", csvPath, err)
	}
	return writeFont(f, filepath.Join(outDir, base+".gfd"))
}

func readHeaderTemplate(resDir, base string) (*gfd.Font, error) {
	path := filepath.Join(resDir, base+"_header.bin")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	f, err := gfd.DecodeHeader(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func writeFont(f *gfd.Font, path string) (string, error) {
	data, err := f.Encode()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("batch: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("batch: %w", err)
	}
	return path, nil
}

// FontJob describes one atlas generation.
type FontJob struct {
	ResDir   string // holds <Base>_header.bin and <Base>_list.json
	Base     string // e.g. font00_jpn
	FontPath string // TrueType/OpenType font
	SizePx   int    // zero uses the header's size
	Adjust   image.Point
}

// GenerateFont rasterizes the character list of job onto atlas pages
// and writes the descriptor and one TEX per page to cfg.OutputDir. Pages
// are encoded on the worker pool; previews are written when cfg.Preview
// is set.
func GenerateFont(ctx context.Context, cfg Config, job FontJob) ([]Result, error) {
	f, err := readHeaderTemplate(job.ResDir, job.Base)
	if err != nil {
		return nil, err
	}
	chars, err := charset.ReadList(filepath.Join(job.ResDir, job.Base+"_list.json"))
	if err != nil {
		return nil, err
	}

	size := job.SizePx
	if size <= 0 {
		size = int(f.Header.SizePx)
	}
	face, err := raster.LoadGlyphFace(job.FontPath, size)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	log := cfg.logger()
	for _, ch := range chars {
		if !face.Has(ch) {
			log.Warn("font has no glyph", "char", string(ch), "code", fmt.Sprintf("%U", ch))
		}
	}

	b := atlas.NewBuilder(face, job.Adjust)
	b.AddAll(chars)
	pages := b.Pages()
	log.Info("atlas built", "font", job.Base, "glyphs", len(chars), "pages", len(pages))

	f.Header.BitmapCount = int32(len(pages))
	f.Glyphs = b.Glyphs()
	gfdPath, err := writeFont(f, filepath.Join(cfg.OutputDir, job.Base+".gfd"))
	if err != nil {
		return nil, err
	}

	jobs := make([]Job, len(pages))
	for i, page := range pages {
		name := texture.PageName(job.Base, i)
		jobs[i] = Job{Name: name, Run: func(context.Context) (string, error) {
			return writePage(cfg, page, filepath.Join(cfg.OutputDir, name))
		}}
	}
	results := Run(ctx, cfg, jobs)
	return append([]Result{{Name: filepath.Base(gfdPath), Output: gfdPath, Success: true}}, results...), nil
}

func writePage(cfg Config, page *image.NRGBA, path string) (string, error) {
	t, err := tex.FromImage(page)
	if err != nil {
		return "", err
	}
	data, err := t.Encode()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("batch: %w", err)
	}
	if cfg.Preview {
		preview := postprocess.Preview(page, cfg.PreviewSize)
		if err := texture.Save(path+cfg.format().Ext(), preview, cfg.format()); err != nil {
			return "", err
		}
	}
	return path, nil
}

func (c Config) format() texture.Format {
	if c.Format == "" || c.Format == texture.TEX {
		return texture.PNG
	}
	return c.Format
}

// ExportFont crops every glyph of the descriptor at path from its atlas
// page and writes it, composited on black, as outDir/<index>.<ext>.
// Pages are looked up in pagesDir as TEX files or images decoded from them.
func ExportFont(ctx context.Context, cfg Config, path, pagesDir string) ([]Result, error) {
	f, err := gfd.ReadFile(path)
	if err != nil {
		return nil, err
	}
	idx, err := texture.BuildIndex(pagesDir, FontBase(path))
	if err != nil {
		return nil, err
	}
	if idx.Len() == 0 {
		return nil, fmt.Errorf("batch: no pages of %s in %s", FontBase(path), pagesDir)
	}
	cache := texture.NewCache(idx)

	format := cfg.format()
	jobs := make([]Job, len(f.Glyphs))
	for i, g := range f.Glyphs {
		name := strconv.Itoa(i) + format.Ext()
		jobs[i] = Job{Name: name, Run: func(context.Context) (string, error) {
			page, err := cache.Resolve(g.Tex)
			if err != nil {
				return "", fmt.Errorf("%s: %w", FontBase(path), err)
			}
			img, err := postprocess.CropGlyph(page, g.Rect())
			if err != nil {
				return "", err
			}
			out := filepath.Join(cfg.OutputDir, name)
			return out, texture.Save(out, img, format)
		}}
	}
	return Run(ctx, cfg, jobs), nil
}
