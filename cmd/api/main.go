// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Command api runs and administers the reviewboard HTTP API.

	api serve                    start the HTTP server
	api migrate up               apply pending migrations
	api migrate down --steps 1   roll back migrations
	api create-admin --email a@b.c --username root

Configuration is read from the environment (and a local .env file when present).
*/
package main

func main() {
	Execute()
}
