// Package organize implements the relocation pipeline: filtering scanned
// files, resolving capture dates, and copying or moving eligible files into
// the YYYY/MM/DD output layout.
package organize
