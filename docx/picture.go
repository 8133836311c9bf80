package docx

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// EMUPerCm is the number of English Metric Units in a centimetre.
const EMUPerCm = 360000

var imageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

const inlinePicture = `<w:drawing xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<wp:inline distT="0" distB="0" distL="0" distR="0" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">` +
	`<wp:extent cx="%[1]d" cy="%[2]d"/>` +
	`<wp:docPr id="%[3]d" name="Picture %[3]d"/>` +
	`<wp:cNvGraphicFramePr><a:graphicFrameLocks xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" noChangeAspect="1"/></wp:cNvGraphicFramePr>` +
	`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
	`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
	`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
	`<pic:nvPicPr><pic:cNvPr id="0" name="%[4]s"/><pic:cNvPicPr/></pic:nvPicPr>` +
	`<pic:blipFill><a:blip xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" r:embed="%[5]s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>` +
	`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[2]d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>` +
	`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing>`

// AddPicture appends a run with the image file as an inline picture,
// width EMUs wide and keeping its aspect ratio.
func (p *Paragraph) AddPicture(name string, width int64) error {
	d := p.d
	ext := strings.ToLower(filepath.Ext(name))
	ct, ok := imageTypes[ext]
	if !ok {
		return fmt.Errorf("%s: unsupported image type", name)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("%s: empty image", name)
	}
	height := width * int64(cfg.Height) / int64(cfg.Width)

	var media string
	for i := 1; ; i++ {
		media = "media/image" + strconv.Itoa(i) + ext
		if _, ok := d.parts["word/"+media]; !ok {
			break
		}
	}
	d.addPart("word/"+media, data)
	if err := d.ensureDefaultContentType(strings.TrimPrefix(ext, "."), ct); err != nil {
		return err
	}
	rid, err := d.addRelationship(documentPart, relImage, media)
	if err != nil {
		return err
	}

	d.ids++
	drawing, err := parseElement(fmt.Sprintf(inlinePicture, width, height, d.ids, xmlAttr(filepath.Base(name)), rid))
	if err != nil {
		return err
	}
	// The drawing is parsed with its own w prefix declaration; rename it
	// to the document's prefix and drop the declaration.
	drawing.Name.Space = d.w
	drawing.Attr = nil
	r := d.elem("r")
	r.Children = append(r.Children, drawing)
	p.n.Children = append(p.n.Children, r)
	return nil
}

func xmlAttr(s string) string {
	var buf bytes.Buffer
	escape(&buf, s, true)
	return buf.String()
}
