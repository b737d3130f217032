// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/fleetforge/provision"
	ctxsdk "github.com/fleetforge/provision/sdk"
	"github.com/spf13/cobra"
)

// Keep SDK handle in global var.
var sdk ctxsdk.SDK

// SetSDK sets the CA service SDK instance.
func SetSDK(s ctxsdk.SDK) {
	sdk = s
}

// RegistrationAddr is the registration server address flag value.
var RegistrationAddr = "localhost:8443"

var cmdDevice = []cobra.Command{
	{
		Use:   "bootstrap <device_id> <identity_dir>",
		Short: "Bootstrap device identity",
		Long:  `Generates a keypair, submits a CSR for the given device ID and persists the issued identity.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}

			subject, err := loadSubject()
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			keyPEM, csrPEM, err := ctxsdk.NewCSR(provision.DeviceIdentity(args[0]), subject)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			certPEM, sdkerr := sdk.SignCSR(csrPEM)
			if sdkerr != nil {
				logErrorCmd(*cmd, sdkerr)
				return
			}
			caPEM, sdkerr := sdk.RetrieveCA()
			if sdkerr != nil {
				logErrorCmd(*cmd, sdkerr)
				return
			}

			identity := ctxsdk.Identity{KeyPEM: keyPEM, CertPEM: certPEM, CAPEM: caPEM}
			if err := identity.Save(args[1]); err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logSaveIdentity(*cmd, args[1])
		},
	},
	{
		Use:   "register <identity_dir>",
		Short: "Register device",
		Long:  `Registers the bootstrapped device with the fleet registry.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			conn, err := dial(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			defer conn.Close()

			res, err := conn.Register()
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logJSONCmd(*cmd, res)
		},
	},
	{
		Use:   "heartbeat <identity_dir>",
		Short: "Send heartbeat",
		Long:  `Reports liveness for a registered device.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			conn, err := dial(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			defer conn.Close()

			res, err := conn.Heartbeat()
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logJSONCmd(*cmd, res)
		},
	},
	{
		Use:   "health",
		Short: "CA service health",
		Long:  `Checks the liveness of the CA service.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := sdk.Health(); err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logOKCmd(*cmd)
		},
	},
}

// NewDeviceCmd returns the device commands.
func NewDeviceCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "device [bootstrap | register | heartbeat | health]",
		Short: "Device provisioning",
		Long:  `Device bootstrap, registration and liveness against the fleet services.`,
	}

	for i := range cmdDevice {
		cmd.AddCommand(&cmdDevice[i])
	}

	return &cmd
}

func dial(identityDir string) (*ctxsdk.DeviceConn, error) {
	identity, err := ctxsdk.LoadIdentity(identityDir)
	if err != nil {
		return nil, err
	}
	cert, err := identity.Certificate()
	if err != nil {
		return nil, err
	}
	return ctxsdk.Connect(RegistrationAddr, cert, identity.CAPEM)
}
