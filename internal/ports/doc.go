// Package ports defines the interfaces (ports) that connect the upload
// client to infrastructure adapters.
//
// Ports are the boundaries between the upload pipeline and the outside
// world. They define what the client needs from external systems without
// specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [FileReader]: Reads attachment payloads from the file system
//   - [Compressor]: Compresses the assembled request body
//   - [Transport]: Posts the body and blocks for the response
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//   - [ReceiptRepository]: Persists the upload history
//
// # Usage
//
// The upload client (pkg/upload) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// implementations (os files, gzip, net/http).
package ports
