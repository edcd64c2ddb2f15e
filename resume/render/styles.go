package render

// RunStyle captures the run formatting of one block kind. DOCXSize is in
// half-points, PDFSize in points.
type RunStyle struct {
	Bold     bool
	Italic   bool
	DOCXSize int
	PDFSize  float64
	Color    string
}

const (
	HeadingColor = "1F2937"
	NameColor    = "111111"
)

// StyleMap centralizes the formatting for every block kind.
var StyleMap = map[BlockKind]RunStyle{
	BlockName:       {Bold: true, DOCXSize: 32, PDFSize: 24, Color: NameColor},
	BlockTitle:      {DOCXSize: 24, PDFSize: 16},
	BlockLocation:   {DOCXSize: 20, PDFSize: 14},
	BlockContacts:   {DOCXSize: 20, PDFSize: 12},
	BlockHeading:    {Bold: true, DOCXSize: 24, PDFSize: 16, Color: HeadingColor},
	BlockEntryTitle: {Bold: true, DOCXSize: 20, PDFSize: 14},
	BlockMeta:       {Italic: true, DOCXSize: 18, PDFSize: 12},
	BlockBody:       {DOCXSize: 20, PDFSize: 12},
	BlockBullet:     {DOCXSize: 20, PDFSize: 12},
	BlockLabeled:    {DOCXSize: 20, PDFSize: 12},
}

func styleFor(kind BlockKind) RunStyle {
	if style, ok := StyleMap[kind]; ok {
		return style
	}
	return StyleMap[BlockBody]
}
