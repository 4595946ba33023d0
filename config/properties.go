package config

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/magiconair/properties"
	"github.com/spf13/viper"
)

// propertiesType is the viper config type for classic key = value files.
const propertiesType = "properties"

// propertiesCodec reads and writes key = value files. Dotted keys become
// nested sections, so server.port = 80 and port = 80 both load.
type propertiesCodec struct{}

func (propertiesCodec) Decode(b []byte, v map[string]any) error {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(b)
	if err != nil {
		return fmt.Errorf("parse properties: %w", err)
	}

	for _, key := range p.Keys() {
		value, _ := p.Get(key)

		parts := strings.Split(strings.ToLower(key), ".")
		section := v
		for _, part := range parts[:len(parts)-1] {
			next, ok := section[part].(map[string]any)
			if !ok {
				next = map[string]any{}
				section[part] = next
			}
			section = next
		}
		section[parts[len(parts)-1]] = value
	}
	return nil
}

func (propertiesCodec) Encode(v map[string]any) ([]byte, error) {
	flat := map[string]string{}
	flatten("", v, flat)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := properties.NewProperties()
	p.DisableExpansion = true
	for _, k := range keys {
		if _, _, err := p.Set(k, flat[k]); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := p.Write(&buf, properties.UTF8); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func flatten(prefix string, v map[string]any, out map[string]string) {
	for k, val := range v {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if m, ok := val.(map[string]any); ok {
			flatten(key, m, out)
			continue
		}
		out[key] = fmt.Sprint(val)
	}
}

// newFileViper returns a viper instance that also understands classic
// key = value files.
func newFileViper() (*viper.Viper, error) {
	registry := viper.NewCodecRegistry()
	if err := registry.RegisterCodec(propertiesType, propertiesCodec{}); err != nil {
		return nil, fmt.Errorf("register properties codec: %w", err)
	}
	return viper.NewWithOptions(viper.WithCodecRegistry(registry)), nil
}
