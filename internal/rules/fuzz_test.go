package rules

import (
	"testing"

	"srccheck/internal/diag"
	"srccheck/internal/source"
	"srccheck/internal/testkit"
)

const maxSeedBytes = 64 << 10

func FuzzScanFile(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("int x; \n\n\n\tassert(x);\n"))
	f.Add([]byte("# define X\r\n#  include <a>\r\nfabs(1.0); // \\cite\n"))
	f.Add([]byte("\ufeff#pragma once\n\u0105\u2028x\n"))

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > maxSeedBytes {
			data = data[:maxSeedBytes]
		}
		file, err := source.Decode("fuzz.cc", data)
		if err != nil {
			return
		}
		for _, opts := range []Options{DefaultOptions(), {MaxLineLength: 1, LengthMode: LengthCells}} {
			bag := diag.NewBag(0)
			ScanFile("fuzz.cc", file, diag.BagReporter{Bag: bag}, opts)
			if err := testkit.CheckScanInvariants("fuzz.cc", file, bag.Items()); err != nil {
				t.Fatalf("%v\ninput: %q", err, data)
			}
		}
	})
}
