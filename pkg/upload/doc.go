// Package upload provides the synchronous multipart crash uploader.
//
// A Client collects form parameters and minidump files, encodes them as one
// multipart/form-data body, compresses it and posts it in a single blocking
// call. There is no retry and no streaming: one Send is one request.
//
// # Usage
//
//	c := upload.New(upload.WithLogger(logger))
//	if err := c.Init("https://crash.example.com/submit"); err != nil {
//	    return err
//	}
//	c.SetMinidumpID("01654-67465dgf")
//	c.SetParameters(map[string]string{"prod": "MyGame", "ver": "1.0.0"})
//	c.AddFileAtPath("/tmp/crash.dmp", "upload_file_minidump")
//
//	resp, err := c.Send(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Body)
//
// # Lifecycle
//
// A Client moves from StateUninitialized to StateConfigured on Init and to
// StateSent on Send, whatever the outcome. Calling Init again prepares a new
// request with a fresh boundary.
//
// # Concurrency
//
// A Client has no internal locking. Use one Client per goroutine; distinct
// clients are independent.
//
// # Version
//
// Current version: 1.1.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package upload
