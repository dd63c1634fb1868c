// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

// Command devtoken mints a JWT the way the external identity service does,
// for local development and smoke tests. It signs with JWT_SECRET from the
// same configuration the server reads.
//
//	devtoken -user 7 -name ana -groups student,teacher
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tomtom215/campus/internal/auth"
	"github.com/tomtom215/campus/internal/config"
	"github.com/tomtom215/campus/internal/logging"
)

type options struct {
	userID   int64
	username string
	email    string
	groups   []string
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("devtoken", flag.ContinueOnError)
	userID := fs.Int64("user", 0, "numeric user id (required)")
	username := fs.String("name", "", "username claim")
	email := fs.String("email", "", "email claim")
	groups := fs.String("groups", "student", "comma-separated groups")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *userID <= 0 {
		return nil, errors.New("-user must be a positive id")
	}

	opts := &options{userID: *userID, username: *username, email: *email}
	if opts.username == "" {
		opts.username = fmt.Sprintf("user%d", opts.userID)
	}
	for _, g := range strings.Split(*groups, ",") {
		if g = strings.TrimSpace(g); g != "" {
			opts.groups = append(opts.groups, g)
		}
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid arguments")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	manager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	token, err := manager.GenerateToken(opts.userID, opts.username, opts.email, opts.groups)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to sign token")
	}
	fmt.Println(token)
}
