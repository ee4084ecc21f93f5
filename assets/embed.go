package assets

import (
	_ "embed"
)

// COCOLabels contains the class-name table for COCO-trained SSD models, one
// name per line indexed by class id.
//
//go:embed coco_labels.txt
var COCOLabels []byte
