package kml

import (
	"strings"

	"github.com/AerialWorks/gazetteer/internal/models"
)

// hierarchySuffixes are the name fragments that mark a town or village name.
// The district name heuristic skips Document name fields containing any of
// them, because mis-ordered exports sometimes place a town name first.
var hierarchySuffixes = []string{"乡", "镇", "村"}

// unknownDistrictName is the placeholder used when the Document carries no
// name field at all.
const unknownDistrictName = "未知县"

// parseNested reads the hierarchy from the folder structure: the Document is
// the district, each Folder a town, each Placemark inside a folder a village.
// Parent links are recorded directly; the geometric linker is not needed for
// this mode.
func (p *Parser) parseNested(root *node, forest *models.Forest) {
	document := root.findDescendant("Document")
	if document == nil {
		p.log.Warn("Boundary file has no Document element, nothing to parse")
		return
	}

	district := models.NewRegion(p.districtName(document), models.LevelDistrict, nil)
	districtIdx := forest.Add(district)

	for i := range document.Children {
		folder := &document.Children[i]
		if folder.local() != "Folder" {
			continue
		}

		townName := folder.childText(nameTags...)
		if townName == "" {
			p.log.Debug("Skipping folder without a name")
			continue
		}

		townIdx := forest.Add(models.NewRegion(townName, models.LevelTown, nil))
		if err := forest.Link(models.LevelTown, townIdx, districtIdx); err != nil {
			p.log.Warn("Failed to link town to district", "town", townName, "error", err)
		}

		p.parseVillages(folder, forest, townIdx)
	}
}

// parseVillages creates a village region for every named Placemark directly
// inside the folder. The boundary comes from the first coordinate-bearing
// descendant found depth-first; placemarks without a name are skipped
// silently.
func (p *Parser) parseVillages(folder *node, forest *models.Forest, townIdx int) {
	for i := range folder.Children {
		pm := &folder.Children[i]
		if pm.local() != "Placemark" {
			continue
		}

		villageName := pm.childText(nameTags...)
		if villageName == "" {
			continue
		}

		village := models.NewRegion(villageName, models.LevelVillage, placemarkBoundary(pm))
		villageIdx := forest.Add(village)
		if err := forest.Link(models.LevelVillage, villageIdx, townIdx); err != nil {
			p.log.Warn("Failed to link village to town", "village", villageName, "error", err)
		}
	}
}

// districtName picks the district name from the Document's direct name
// fields: the first one that does not look like a town or village name wins,
// then the first name at all, then the fixed placeholder.
func (p *Parser) districtName(document *node) string {
	var fallback string
	for i := range document.Children {
		child := &document.Children[i]
		if !isNameTag(child.local()) {
			continue
		}
		txt := child.text()
		if txt == "" {
			continue
		}
		if fallback == "" {
			fallback = txt
		}
		if !containsAny(txt, hierarchySuffixes) {
			return txt
		}
	}

	if fallback != "" {
		return fallback
	}

	p.log.Warn("Document has no usable name field, using placeholder district name",
		"placeholder", unknownDistrictName)
	return unknownDistrictName
}

func isNameTag(local string) bool {
	for _, tag := range nameTags {
		if local == tag {
			return true
		}
	}
	return false
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
