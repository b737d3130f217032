// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"os"

	"github.com/fleetforge/provision"
	"github.com/fleetforge/provision/errors"
	ctxsdk "github.com/fleetforge/provision/sdk"
	"github.com/pelletier/go-toml"
)

const (
	defCAURL            string = "http://localhost:8000"
	defRegistrationAddr string = "localhost:8443"
	defTLSVerification  bool   = false
)

type remotes struct {
	CAURL            string `toml:"ca_url"`
	RegistrationAddr string `toml:"registration_addr"`
	TLSVerification  bool   `toml:"tls_verification"`
}

type config struct {
	Remotes remotes `toml:"remotes"`
}

// Readable by all user groups but writeable by the user only.
const filePermission = 0o644

var (
	errReadFail      = errors.New("failed to read config file")
	errWritingConfig = errors.New("error in writing the updated config to file")

	defaultConfigPath = "./config.toml"
)

func read(file string) (config, error) {
	c := config{}
	data, err := os.Open(file)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}
	defer data.Close()

	buf, err := io.ReadAll(data)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}

	if err := toml.Unmarshal(buf, &c); err != nil {
		return config{}, err
	}

	return c, nil
}

// ParseConfig - parses the config file.
func ParseConfig(sdkConf ctxsdk.Config) (ctxsdk.Config, error) {
	if ConfigPath == "" {
		ConfigPath = defaultConfigPath
	}

	_, err := os.Stat(ConfigPath)
	switch {
	// If the file does not exist, create it with default values.
	case os.IsNotExist(err):
		defaultConfig := config{
			Remotes: remotes{
				CAURL:            defCAURL,
				RegistrationAddr: defRegistrationAddr,
				TLSVerification:  defTLSVerification,
			},
		}
		buf, err := toml.Marshal(defaultConfig)
		if err != nil {
			return sdkConf, err
		}
		if err = os.WriteFile(ConfigPath, buf, filePermission); err != nil {
			return sdkConf, errors.Wrap(errWritingConfig, err)
		}
	case err != nil:
		return sdkConf, err
	}

	config, err := read(ConfigPath)
	if err != nil {
		return sdkConf, err
	}

	if config.Remotes.CAURL != "" {
		sdkConf.CAURL = config.Remotes.CAURL
	}
	if config.Remotes.RegistrationAddr != "" {
		RegistrationAddr = config.Remotes.RegistrationAddr
	}
	sdkConf.TLSVerification = config.Remotes.TLSVerification

	return sdkConf, nil
}

// loadSubject loads CSR subject defaults, falling back to built-in values
// when no subject config file is given.
func loadSubject() (provision.SubjectConfig, error) {
	if SubjectPath == "" {
		return provision.SubjectConfig{
			Organization: []string{"FleetForge"},
		}, nil
	}
	return provision.LoadSubjectConfig(SubjectPath)
}
