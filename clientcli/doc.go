// Package clientcli provides a client library for talking to Eirserver over
// raw TCP.
//
// Each request opens a connection, writes one request line with optional
// If-None-Match header, and reads until the server closes the connection.
// Profiles stored in ~/.eir/config.yaml name the servers a user talks to.
//
// # Basic Usage
//
//	client, err := clientcli.New(&clientcli.Config{Address: "localhost:8080"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.Get(ctx, "/index.html", "")
//	etag, _ := resp.Header("ETag")
//
//	// revalidate
//	resp, err = client.Get(ctx, "/index.html", etag) // 304 when unchanged
//
// # Profile Configuration
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	profile, err := configFile.GetProfile("lab")
//	client, err := clientcli.New(clientcli.ConfigFromProfile(profile))
//
// # Output Formatting
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatResponse(os.Stdout, resp, showHeaders)
package clientcli
