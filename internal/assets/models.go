package assets

import _ "embed"

// ModelsData is the selectable model catalog, grouped by provider.
//
//go:embed models.json
var ModelsData []byte
