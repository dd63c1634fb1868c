// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

/*
Package supervisor runs the long-lived parts of Campus under a suture v4
supervisor tree.

# Layout

	RootSupervisor ("campus")
	├── DataSupervisor ("data-layer")
	│   ├── ChatbotWarmService (loads the model bundle once at startup)
	│   └── AuditRetentionService (purges expired audit events)
	├── MessagingSupervisor ("messaging-layer")
	│   └── ChatHubService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer restarts independently. The model warm-up runs once: a failed
load degrades chat, or stops the whole tree when the model is required.

# Logging

Supervisor events go through sutureslog. The slog.Logger handed to
NewSupervisorTree is normally logging.NewSlogLogger(), which forwards to the
global zerolog logger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewChatbotWarmService(chat, services.ChatbotWarmConfig{}, logger))
	tree.AddMessagingService(services.NewChatHubService(hub, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))
	errCh := tree.ServeBackground(ctx)

See the services subpackage for the wrappers.
*/
package supervisor
