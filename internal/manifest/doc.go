// Package manifest loads templated multi-document YAML and resolves its
// placeholders.
//
// A template is read from an embedded filesystem, a local file or an S3
// object, split on "---" separator lines and parsed into [Document] values.
// [Substitute] then renders every string leaf that contains a Go template
// action against a flat value map, and [Encode] turns the result back into
// YAML ready for the applier.
package manifest
