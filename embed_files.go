package embedfiles

import _ "embed"

//go:embed logscan.sample.yaml
var SampleConfig []byte
