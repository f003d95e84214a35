// Package cml provides types, interfaces, and helpers for working with the
// Cisco Modeling Labs REST API.
//
// # Overview
//
// The cml package defines the resource client interfaces (LabsClient,
// NodesClient, InterfacesClient, LinksClient, NodeDefinitionsClient) and the
// small set of types the adapter interprets. Labs, nodes, interfaces and
// links themselves are server owned attribute mappings and are passed through
// as Entity values. A concrete implementation is provided by the cmlclient
// package.
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
//	  cli, err := cmlclient.New(ctx, &cml.Config{
//	    ServerURL: "cml.example.com",
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
// # Errors
//
// A rejected login is reported as AuthenticationError. Any other non-2xx
// response is reported as RequestError, including a second 401 after a
// successful reauthentication. Payloads that cannot be normalized produce
// UnexpectedResponseShapeError. Helpers such as IsUnauthorized and IsNotFound
// branch on the common cases.
package cml
