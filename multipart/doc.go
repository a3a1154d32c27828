// Package multipart flattens a shallow record of scalars and files into an
// ordered multipart form.
//
// The encoder is deliberately narrow. Only a single top-level Record is
// accepted; each field becomes one part:
//
//   - scalars become text parts (None and Unit become the literal "null")
//   - Bytes become a file part without a file name
//   - File(contents, name) becomes a file part carrying that name
//
// Nested records, unkeyed sequences and misplaced files are rejected with an
// *EncodingError whose cause can be matched with errors.Is:
//
//	form, err := multipart.Encode(multipart.Record(
//		multipart.Entry("pdbName", multipart.String("1jsu")),
//	))
//	if errors.Is(err, multipart.ErrNestedMap) { ... }
//
// Encoding is write-only: there is no decoder, and "null" is not read back as
// an absent value by anything in this module.
package multipart
