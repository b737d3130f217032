// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

// Package main contains cli main function to run the cli.
package main

import (
	"log"

	"github.com/fleetforge/provision/cli"
	"github.com/fleetforge/provision/sdk"
	"github.com/spf13/cobra"
)

func main() {
	sdkConf := sdk.Config{
		MsgContentType: sdk.CTJSON,
	}

	// Root
	rootCmd := &cobra.Command{
		Use: "provision-cli",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			cliConf, err := cli.ParseConfig(sdkConf)
			if err != nil {
				log.Fatalf("Failed to parse config: %s", err)
			}
			if cliConf.MsgContentType == "" {
				cliConf.MsgContentType = sdk.CTJSON
			}
			s := sdk.NewSDK(cliConf)
			cli.SetSDK(s)
		},
	}
	// API commands
	deviceCmd := cli.NewDeviceCmd()

	// Root Commands
	rootCmd.AddCommand(deviceCmd)

	rootCmd.PersistentFlags().StringVarP(
		&sdkConf.CAURL,
		"ca-url",
		"s",
		sdkConf.CAURL,
		"CA service URL",
	)

	rootCmd.PersistentFlags().StringVarP(
		&cli.RegistrationAddr,
		"registration-addr",
		"a",
		cli.RegistrationAddr,
		"Registration server address",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&sdkConf.TLSVerification,
		"insecure",
		"i",
		sdkConf.TLSVerification,
		"Do not check for TLS cert",
	)

	rootCmd.PersistentFlags().StringVarP(
		&cli.ConfigPath,
		"config",
		"c",
		cli.ConfigPath,
		"Config path",
	)

	rootCmd.PersistentFlags().StringVarP(
		&cli.SubjectPath,
		"subject",
		"j",
		cli.SubjectPath,
		"CSR subject config path",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&sdkConf.CurlFlag,
		"curl",
		"x",
		false,
		"Convert HTTP request to cURL command",
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute root command: %s", err)
	}
}
