// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package zabbix is a minimal JSON-RPC client for the Zabbix API,
// covering what the problems dashboard needs: version discovery, token
// validation, problem and trigger queries, and event acknowledgement.
//
// Requests go to <url>/api_jsonrpc.php. The server version is read
// once with the unauthenticated apiinfo.version method and selects how
// the API token is presented: Zabbix 6.4 and later take it as an
// "Authorization: Bearer" header, older servers in the request's
// "auth" member.
//
// [Client.Fetch] implements [problem.Fetcher] and
// [Client.Acknowledge] implements [problem.Acknowledger]. Records that
// fail validation during decoding are dropped with a warning rather
// than failing the whole fetch.
//
// JSON-RPC error objects are returned as *[APIError]; transport
// failures are wrapped with a "zabbix:" prefix.
package zabbix
