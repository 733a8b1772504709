// Package multipart renders multipart/form-data bodies for crash uploads.
//
// The wire format is fixed byte for byte. A form field renders as
//
//	--{boundary}\r\n
//	Content-Disposition: form-data; name="{name}"\r\n
//	\r\n
//	{value}\r\n
//
// a file part as
//
//	--{boundary}\r\n
//	Content-Disposition: form-data; name="{field}"; filename="{minidumpID}.dmp"\r\n
//	Content-Type: application/octet-stream\r\n
//	\r\n
//	{raw bytes}
//
// and the body ends with the epilogue "\r\n--{boundary}--\r\n". Names and
// values are not escaped, and the boundary is not checked against the payload.
//
// # Usage
//
//	boundary := multipart.NewBoundary(multipart.DefaultRandom())
//	body := multipart.NewBody(boundary)
//	body.AddField("prod", "MyGame")
//	body.AddFile("upload_file_minidump", "4f1c", contents)
//	buf := body.Close()
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package multipart
