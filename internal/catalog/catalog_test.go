package catalog

import "testing"

func TestMustInfo_AllSizes(t *testing.T) {
	seenNames := make(map[string]Size)

	for _, size := range Sizes() {
		info := MustInfo(size)

		if info.ApproxBytes <= 0 {
			t.Errorf("size %s: ApproxBytes = %d, want > 0", size, info.ApproxBytes)
		}
		if info.FileName == "" {
			t.Errorf("size %s: empty file name", size)
		}
		if info.URL == "" {
			t.Errorf("size %s: empty URL", size)
		}

		if prev, dup := seenNames[info.FileName]; dup {
			t.Errorf("file name %q shared by %s and %s", info.FileName, prev, size)
		}
		seenNames[info.FileName] = size
	}
}

func TestMustInfo_UnknownSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustInfo(Size(99)) did not panic")
		}
	}()
	MustInfo(Size(99))
}

func TestSizes_Ordering(t *testing.T) {
	asc := Sizes()
	desc := SizesLargestFirst()

	if len(asc) != len(desc) {
		t.Fatalf("Sizes() has %d entries, SizesLargestFirst() has %d", len(asc), len(desc))
	}

	for i := 1; i < len(asc); i++ {
		prev := MustInfo(asc[i-1]).ApproxBytes
		cur := MustInfo(asc[i]).ApproxBytes
		if cur <= prev {
			t.Errorf("Sizes() not strictly ascending at %s: %d <= %d", asc[i], cur, prev)
		}
	}

	for i := range asc {
		if asc[i] != desc[len(desc)-1-i] {
			t.Errorf("SizesLargestFirst() is not the reverse of Sizes() at index %d", i)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		want    Size
		wantErr bool
	}{
		{name: "tiny", want: Tiny},
		{name: "base", want: Base},
		{name: "small", want: Small},
		{name: "medium", want: Medium},
		{name: "large", want: Large},
		{name: "huge", wantErr: true},
		{name: "", wantErr: true},
		{name: "Tiny", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseSize(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSize(%q): expected error, got %s", tt.name, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSize(%q): unexpected error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q) = %s, want %s", tt.name, got, tt.want)
		}
		if got.String() != tt.name {
			t.Errorf("Size(%s).String() = %q, want %q", tt.want, got.String(), tt.name)
		}
	}
}
