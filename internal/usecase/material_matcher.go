package usecase

import (
	"strings"
)

// FindBestMaterial maps free text to a canonical material key.
//
// known must be sorted by descending length. An exact (case-insensitive) match
// wins first; otherwise the first key in known order that occurs as a literal
// substring of the text is returned. Precedence follows the order of known,
// not the position of the hit in the text, so "steel frame, stainless steel
// bolts" resolves to "stainless steel".
func FindBestMaterial(raw string, known []string) (string, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" || len(known) == 0 {
		return "", false
	}

	for _, material := range known {
		if material == text {
			return material, true
		}
	}

	for _, material := range known {
		if material != "" && strings.Contains(text, material) {
			return material, true
		}
	}

	return "", false
}

// FindBestMaterialMatch returns the match for the first mention, in scrape
// order, that resolves to any known material.
func FindBestMaterialMatch(mentions []string, known []string) (string, bool) {
	for _, mention := range mentions {
		if material, ok := FindBestMaterial(mention, known); ok {
			return material, true
		}
	}
	return "", false
}
