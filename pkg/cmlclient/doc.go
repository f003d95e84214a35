// Package cmlclient provides the primary entry point for constructing a
// Cisco Modeling Labs API client that implements the cml.Client interface.
//
// It layers configuration, HTTP transport and session authentication on top
// of the resource interfaces and types defined in the cml package.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/cml-mcp/pkg/cml"
//	  "github.com/fivetwenty-io/cml-mcp/pkg/cmlclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := cmlclient.New(ctx, &cml.Config{
//	    ServerURL: "cml.example.com", // https:// is added
//	    Username:  "admin",
//	    Password:  "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  labs, err := cli.Labs().List(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = labs
//	}
//
// # TLS
//
// CML appliances usually ship with self-signed certificates. Set
// Config.InsecureSkipVerify to accept them.
//
// # Helpers
//
// NewAuthenticated logs in before returning, and NewWithPassword wraps New
// with the minimal configuration.
package cmlclient
