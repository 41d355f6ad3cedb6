/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package main is the entry point of the OAuth2 server.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/constants"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/crypto/hash"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          constants.ServerName,
		Short:        "OAuth2 authorization server",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newServeCommand(), newHashSecretCommand())
	return rootCmd
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the token and revocation endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	serveCmd.Flags().StringVar(&opts.home, "home", "",
		"Path to the server home directory (defaults to the working directory)")
	serveCmd.Flags().StringVar(&opts.configFile, "config", constants.DefaultConfigFilePath,
		"Path to the deployment configuration, relative to the home directory unless absolute")
	return serveCmd
}

func newHashSecretCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-secret [secret]",
		Short: "Print the bcrypt hash of a client secret or user password",
		Long: "Print the bcrypt hash of a client secret or user password for the clients and users " +
			"sections of the deployment configuration. The secret is read from standard input when " +
			"it is not passed as an argument.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := readSecret(cmd, args)
			if err != nil {
				return err
			}
			hashed, err := hash.HashSecret(secret)
			if err != nil {
				return fmt.Errorf("failed to hash secret: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hashed)
			return err
		},
	}
}

func readSecret(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return "", errors.New("no secret provided")
	}
	secret := strings.TrimSpace(scanner.Text())
	if secret == "" {
		return "", errors.New("no secret provided")
	}
	return secret, nil
}
