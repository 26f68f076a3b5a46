// Package textutil provides the text helpers used for title lookup and file
// naming.
//
// The primary use cases are:
//   - difflib-compatible similarity ratios and close-match lookup for story
//     titles and issue labels
//   - caseless, NFC-normalized comparison of titles from historical indexes
//   - flattening display titles for use in file and directory names
package textutil
