package xcorr

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// =============================================================================
// 配置文件加载
// =============================================================================

// Format 配置文件格式。
type Format string

// 支持的配置格式。
const (
	// FormatYAML YAML 格式（推荐用于 K8s ConfigMap）。
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

var (
	// ErrEmptyPath 配置文件路径为空。
	ErrEmptyPath = errors.New("xcorr: empty config path")

	// ErrUnsupportedFormat 不支持的配置格式/文件扩展名。
	ErrUnsupportedFormat = errors.New("xcorr: unsupported config format (want yaml or json)")

	// ErrLoadFailed 配置读取或解析失败。
	ErrLoadFailed = errors.New("xcorr: failed to load config")
)

// LoadOptions 从配置文件加载关联配置。
//
// 根据文件扩展名自动检测格式（.yaml/.yml 或 .json）。
// 文件中未出现的键保持 [DefaultOptions] 的默认值；
// 生成器函数不可从文件配置，仅能通过代码注入。
//
// 配置键布局（YAML 示例）：
//
//	scheme: Hierarchical
//	operation:
//	  header_name: X-Operation-Id
//	  include_in_response: true
//	transaction:
//	  header_name: X-Transaction-ID
//	  allow_in_request: true
//	  generate_when_absent: true
//	  include_in_response: true
//	upstream_service:
//	  header_name: Request-Id
//	  extract_from_request: true
//	  include_in_response: true
func LoadOptions(path string) (Options, error) {
	if path == "" {
		return Options{}, ErrEmptyPath
	}

	format, err := detectFormat(path)
	if err != nil {
		return Options{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	return ParseOptions(data, format)
}

// ParseOptions 从字节数据解析关联配置。
// 需要显式指定格式，适用于 K8s ConfigMap 等场景。
func ParseOptions(data []byte, format Format) (Options, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = kyaml.Parser()
	case FormatJSON:
		parser = kjson.Parser()
	default:
		return Options{}, ErrUnsupportedFormat
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	o := DefaultOptions()
	if err := k.UnmarshalWithConf("", &o, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	// 协议值大小写规整："w3c" 与 "W3C" 等价
	if raw := strings.TrimSpace(string(o.Scheme)); raw != "" {
		scheme, err := ParseScheme(raw)
		if err != nil {
			return Options{}, err
		}
		o.Scheme = scheme
	} else {
		o.Scheme = DefaultOptions().Scheme
	}

	return o, nil
}

// detectFormat 根据文件扩展名检测配置格式。
func detectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}
