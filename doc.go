// Package ringws is a client for the RING web service, which computes residue
// interaction networks of protein structures.
//
// The package provides:
//
//   - Settings and their flattened, string-valued wire form (ToWire, SettingsFromWire)
//   - Requests for the submit, status and results endpoints
//   - Response decoding that routes every compact string through package codec
//     and reports failures as Issues (JSON Pointer, code, message)
//   - A Client that sends requests and waits for jobs with exponential backoff
//
// Layout:
//   - Public API lives in the root package.
//   - Compact-string codecs are under codec/, the multipart encoder under multipart/.
//   - The JSON token engine is under internal/engine, its go-json driver under source/gojson.
//   - The command line tool is cmd/ringws.
//
// Typical usage:
//
//	c, err := ringws.NewClient(ringws.DefaultConfig())
//	sub, err := c.SubmitID(ctx, ringws.SubmitID{PDBID: "1jsu", Settings: ringws.DefaultSettings()})
//	_, err = c.Wait(ctx, sub.JobID)
//	res, err := c.Result(ctx, sub.JobID)
//	for _, e := range res.Edges {
//		fmt.Println(e.Source, e.Interaction, e.Target)
//	}
package ringws
