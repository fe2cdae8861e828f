package value

import "testing"

func TestArrayLenAndAt(t *testing.T) {
	a := &Array{Kind: KindInt32, Int32: []int32{1, 2, 3}}
	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
	if a.At(1) != int32(2) {
		t.Errorf("At(1) = %v, want 2", a.At(1))
	}
}

func TestGatherDereferencesDictionary(t *testing.T) {
	dict := &Array{Kind: KindBytesVar, BytesVar: [][]byte{[]byte("red"), []byte("green"), []byte("blue")}}
	out := Gather(dict, []int32{2, 0, 0, 1})
	want := []string{"blue", "red", "red", "green"}
	if out.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", out.Len(), len(want))
	}
	for i, w := range want {
		if string(out.At(i).([]byte)) != w {
			t.Errorf("At(%d) = %v, want %q", i, out.At(i), w)
		}
	}
}

func TestAppendAcrossKinds(t *testing.T) {
	dst := &Array{}
	src := &Array{Kind: KindFloat64, Float64: []float64{1.5, 2.5}}
	Append(dst, src, 1)
	if dst.Kind != KindFloat64 || dst.Float64[0] != 2.5 {
		t.Errorf("dst = %+v", dst)
	}
}
