package config

import _ "embed"

// DefaultConfigYAML 内置的默认配置
//
//go:embed default.yaml
var DefaultConfigYAML []byte
