package transform

import (
	"strings"

	"exifimage/types"
	"exifimage/utils"
)

// ComputeTags returns the tags for an image: the cleaned keywords, the category
// segments and camera fields enabled by setup, and the software name.
func ComputeTags(md types.Metadata, keywords []string, setup *types.TransformationSetup) []string {
	tags := make([]string, 0, len(keywords)+6)
	add := func(tag string) {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	for _, k := range keywords {
		add(k)
	}

	if setup != nil {
		for _, segment := range utils.SplitCollectionPath(md.String("category"), setup.Divider()) {
			add(types.Capitalize(segment))
		}
	}

	add(md.String("software"))

	if setup != nil {
		if setup.ConvertCameraMakeToTag {
			add(md.String("camera_make"))
		}
		if setup.ConvertCameraModelToTag {
			add(md.String("camera_model"))
		}
		if setup.ConvertLensMakeToTag {
			add(md.String("lens_make"))
		}
		if setup.ConvertLensModelToTag {
			add(md.String("lens_model"))
		}
	}

	return tags
}

// ComputeCollectionPath returns the collection segments for an image.
// An explicit path wins; otherwise the category is split when the setup allows it.
// A nil result means the collection stays as it is.
func ComputeCollectionPath(explicit []string, category string, setup *types.TransformationSetup) []string {
	var path []string
	for _, segment := range explicit {
		if segment = strings.TrimSpace(segment); segment != "" {
			path = append(path, segment)
		}
	}
	if len(path) > 0 {
		return path
	}

	if setup == nil || !setup.ConvertCategoriesToCollections {
		return nil
	}
	return utils.SplitCollectionPath(category, setup.Divider())
}

// FillMissingTitle copies caption, else headline, into a missing or placeholder title
// when the setup asks for it. It reports whether md changed.
func FillMissingTitle(md types.Metadata, setup *types.TransformationSetup) bool {
	if setup == nil || !setup.CopyCaptionHeadlineToTitleIfMissing {
		return false
	}
	if types.IsRealTitle(md.String("title")) {
		return false
	}
	for _, field := range []string{"caption", "headline"} {
		if v := strings.TrimSpace(md.String(field)); v != "" {
			md["title"] = v
			return true
		}
	}
	return false
}
