//
//  Copyright 2026 rubberove, All Rights Reserved
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

// Package config loads settings of switflake command line tool.
//
// Sources are layered, later one wins: built-in defaults, JSON file,
// environment variables prefixed with SWITFLAKE_. Double underscore
// separates nested keys, e.g. SWITFLAKE_LOG__LEVEL sets log.level.
// SWITFLAKE_CONFIG names the file and is not a setting.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix of environment variables
const EnvPrefix = "SWITFLAKE_"

// Config of the tool
type Config struct {
	// Node identifier ⟨𝒍⟩, 12 bits
	Node uint64 `json:"node" validate:"max=4095"`
	// Workers is number of concurrent generators, bounded by slot pool
	Workers int `json:"workers" validate:"min=1,max=8"`
	// Count of identifiers minted by each worker
	Count int `json:"count" validate:"min=1,max=255"`
	// Format of output
	Format string `json:"format" validate:"oneof=decimal hex string json"`

	Log Log `json:"log"`
}

// Log configures diagnostic output
type Log struct {
	Level string `json:"level" validate:"oneof=trace debug info warn error"`
	// File enables rotating log file, stderr is used if empty
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb" validate:"min=1"`
	MaxBackups int    `json:"max_backups" validate:"min=0"`
}

// Default config
func Default() Config {
	return Config{
		Node:    0,
		Workers: 1,
		Count:   1,
		Format:  "decimal",
		Log: Log{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 20,
		},
	}
}

// Load reads config from defaults, optional JSON file and environment and
// validates it.
func Load(filename string) (*Config, error) {
	cfg, err := Read(filename)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read layers defaults, optional JSON file and environment without
// validation, the caller may override values before calling Validate.
func Read(filename string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "json"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if filename != "" {
		if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", filename, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		if s == "CONFIG" {
			// location of the file itself, not a setting
			return ""
		}
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	err = k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "json",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, nil
}

// Validate checks consistency of config
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()

	// report json names of fields instead of Go names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}
