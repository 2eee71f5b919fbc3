// Package restclient is a small fluent client for versioned REST APIs.
//
// Path segments are accumulated by chaining and a verb call dispatches the
// request against {host}/v{version}/{segments...}:
//
//	c, _ := restclient.New(restclient.Options{Host: "https://api.example.com", APIKey: key, Version: 3})
//	resp, err := c.Segment("api_keys").Segment(id).Get(ctx, restclient.WithQuery(map[string]any{"limit": 10}))
//
// Names can also be resolved dynamically with [Client.Attr]: verb names
// return a bound [RequestFunc], anything else becomes the next segment.
//
// A Client keeps the last response (StatusCode, Body, ResponseHeaders) and
// resets its path after every dispatch. It is not safe for concurrent use;
// use [Client.Clone] to run independent chains.
package restclient
