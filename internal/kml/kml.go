package kml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AerialWorks/gazetteer/internal/models"
	"github.com/paulmach/orb"
)

// Mode selects the boundary parsing strategy. Callers choose it based on how
// the file was authored; it is never auto-detected.
type Mode string

const (
	// ModeStandard reads the region level from the LineStyle width of each
	// Placemark (3=district, 2=town, 1=village). Hierarchy is established
	// afterwards by the geometric linker.
	ModeStandard Mode = "standard"
	// ModeNested reads the hierarchy from the document structure:
	// Document=district, Folder=town, Placemark=village. Parent links are
	// recorded directly while parsing.
	ModeNested Mode = "nested"
)

// Common parser errors.
var (
	ErrUnknownMode = errors.New("unknown boundary parse mode")
)

// Parser converts KML boundary documents into region forests.
type Parser struct {
	log *slog.Logger
}

// NewParser creates a boundary parser that reports warnings to the logger.
func NewParser(log *slog.Logger) *Parser {
	return &Parser{log: log}
}

// Parse reads the boundary document at path with the selected strategy.
//
// A document that is not well-formed XML yields an empty forest together
// with the error, so a resolver built from the result simply never matches;
// the failure is never fatal to the caller's batch.
func (p *Parser) Parse(path string, mode Mode) (*models.Forest, error) {
	forest := models.NewForest()

	data, err := os.ReadFile(path)
	if err != nil {
		return forest, fmt.Errorf("failed to read boundary file: %w", err)
	}

	var root node
	if err = xml.Unmarshal(data, &root); err != nil {
		return forest, fmt.Errorf("failed to parse boundary file %q: %w", path, err)
	}

	switch mode {
	case ModeStandard:
		p.parseStandard(&root, forest)
	case ModeNested:
		p.parseNested(&root, forest)
	default:
		return forest, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	p.log.Info("Boundary file parsed",
		"path", path,
		"mode", string(mode),
		"districts", len(forest.Regions(models.LevelDistrict)),
		"towns", len(forest.Regions(models.LevelTown)),
		"villages", len(forest.Regions(models.LevelVillage)),
	)

	return forest, nil
}

// node is a schema-free XML element. Decoding into it keeps the parser
// independent of the KML namespace and tolerant of the <n> tag that some
// exporters emit instead of <name>.
type node struct {
	XMLName  xml.Name
	Content  string `xml:",chardata"`
	Children []node `xml:",any"`
}

// local returns the element name without its namespace.
func (n *node) local() string {
	return n.XMLName.Local
}

// text returns the trimmed character data of the element.
func (n *node) text() string {
	return strings.TrimSpace(n.Content)
}

// findDescendant returns the first descendant (depth-first, the node itself
// included) with the given local name.
func (n *node) findDescendant(name string) *node {
	if n.local() == name {
		return n
	}
	for i := range n.Children {
		if found := n.Children[i].findDescendant(name); found != nil {
			return found
		}
	}
	return nil
}

// childText returns the trimmed text of the first direct child whose local
// name is one of names, or "".
func (n *node) childText(names ...string) string {
	for i := range n.Children {
		for _, name := range names {
			if n.Children[i].local() == name {
				if txt := n.Children[i].text(); txt != "" {
					return txt
				}
			}
		}
	}
	return ""
}

// nameTags lists the element names that carry a region name. Some KML
// exporters write <n> instead of <name>.
var nameTags = []string{"name", "n"}

// parseCoordinates splits a KML coordinate block into points. Tokens are
// "longitude,latitude[,altitude]" separated by whitespace; a malformed token
// is skipped on its own, it never discards the rest of the ring.
func parseCoordinates(text string) []orb.Point {
	var points []orb.Point
	for _, token := range strings.Fields(text) {
		parts := strings.Split(token, ",")
		const minParts = 2
		if len(parts) < minParts {
			continue
		}
		lon, errLon := strconv.ParseFloat(parts[0], 64)
		lat, errLat := strconv.ParseFloat(parts[1], 64)
		if errLon != nil || errLat != nil {
			continue
		}
		points = append(points, orb.Point{lon, lat})
	}
	return points
}

// FindBoundaryFiles returns every .kml and .ovkml file under dir, walking
// subdirectories.
func FindBoundaryFiles(dir string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".kml" || ext == ".ovkml" {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %q for boundary files: %w", dir, err)
	}
	return found, nil
}
