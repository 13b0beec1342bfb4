// Package itemset reads and writes the files the masonry CLI and server
// work with.
//
// # Document Format
//
// An item set describes a container, optional layout options and the items
// to place:
//
//	{
//	  "container": {"width": 1280, "height": 720},
//	  "options": {"baseSize": 200, "gap": 16, "grid": true},
//	  "items": [
//	    {"id": "hero", "format": {"size": {"width": 600, "height": 400}}},
//	    {"id": "quote", "format": {"ratio": "banner"}},
//	    {"id": "note"}
//	  ]
//	}
//
// Every field except items is optional. JSON files may also be a bare array
// of items. The same structure is accepted as JSONC (comments and trailing
// commas), YAML and TOML; [ReadFile] picks the decoder from the extension.
//
// # Item Fields
//
//   - id: caller identifier, echoed back in the result
//   - label: display text used by the preview
//   - format: sizing hints (size, minSize, maxSize, ratio, loose)
//   - meta: freeform object, passed through untouched
//
// # Results
//
// [WriteResult] writes a layout as indented JSON. Cards appear in input
// order and carry the item they place.
package itemset
