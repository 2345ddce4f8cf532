// Copyright 2023 RelationalAI, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package horizontal

import (
	"os/user"
	"path"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

const DefaultConfigFile = "~/.hz/config"
const DefaultConfigProfile = "default"

// Config holds host settings read from a config profile. None of these
// change what an operation computes except StopOnFirstNull, which selects
// the collapse policy.
type Config struct {
	Format          string   `json:"format"`
	StopOnFirstNull bool     `json:"stop_on_first_null"`
	Concurrency     int      `json:"concurrency"`
	Delimiter       string   `json:"delimiter"`
	NullValues      []string `json:"null_values"`
	Schema          string   `json:"schema"`
}

// DefaultConfig returns the settings used when no profile overrides them.
func DefaultConfig() Config {
	return Config{
		Format:      "pretty",
		Concurrency: 1,
		Delimiter:   ",",
		NullValues:  []string{"", "NULL", "null"},
	}
}

// Policy returns the collapse policy selected by the config.
func (cfg *Config) Policy() Policy {
	return PolicyFromFlag(cfg.StopOnFirstNull)
}

// Expand the given file path if it start with a ~/
func expandUser(fname string) (string, error) {
	if strings.HasPrefix(fname, "~/") {
		usr, err := user.Current()
		if err != nil {
			return "", err
		}
		return path.Join(usr.HomeDir, fname[2:]), nil
	}
	return fname, nil
}

// Load the named stanza from the source.
// Source can be either filename or config string
func loadStanza(source interface{}, profile string) (*ini.Section, error) {
	info, err := ini.Load(source)
	if err != nil {
		return nil, errors.Wrapf(err, "error loading config")
	}
	if !info.HasSection(profile) {
		return nil, errors.Errorf("config profile '%s' not found", profile)
	}
	return info.Section(profile), nil
}

func parseConfigStanza(stanza *ini.Section, cfg *Config) error {
	if v := stanza.Key("format").String(); v != "" {
		if v != "pretty" && v != "json" {
			return errors.Errorf("bad format '%s', expected 'pretty' or 'json'", v)
		}
		cfg.Format = v
	}
	if stanza.HasKey("stop_on_first_null") {
		v, err := stanza.Key("stop_on_first_null").Bool()
		if err != nil {
			return errors.Wrap(err, "bad stop_on_first_null")
		}
		cfg.StopOnFirstNull = v
	}
	if stanza.HasKey("concurrency") {
		v, err := stanza.Key("concurrency").Int()
		if err != nil {
			return errors.Wrap(err, "bad concurrency")
		}
		cfg.Concurrency = v
	}
	if v := stanza.Key("delimiter").String(); v != "" {
		cfg.Delimiter = v
	}
	if stanza.HasKey("null_values") {
		cfg.NullValues = stanza.Key("null_values").Strings(",")
	}
	if v := stanza.Key("schema").String(); v != "" {
		cfg.Schema = v
	}
	return nil
}

// Load settings from the given profile of the provided config source.
func LoadConfigString(source, profile string, cfg *Config) error {
	stanza, err := loadStanza([]byte(source), profile)
	if err != nil {
		return err
	}
	return parseConfigStanza(stanza, cfg)
}

// Load settings from the given profile of the named config file.
func LoadConfigFile(fname, profile string, cfg *Config) error {
	fname, err := expandUser(fname)
	if err != nil {
		return err
	}
	stanza, err := loadStanza(fname, profile)
	if err != nil {
		return err
	}
	return parseConfigStanza(stanza, cfg)
}

// Load settings from the default profile of the default config file.
func LoadConfig(cfg *Config) error {
	return LoadConfigFile(DefaultConfigFile, DefaultConfigProfile, cfg)
}
