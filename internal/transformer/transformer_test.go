package transformer

import (
	"reflect"
	"sync/atomic"
	"testing"

	"seedqa/pkg/records"
)

/*
setBarcode mutates each record in place. Used to verify mutation flows
through Chain.
*/
type setBarcode struct{ val string }

func (t setBarcode) Apply(in []records.Record) []records.Record {
	for i := range in {
		in[i].Barcode += t.val
	}
	return in
}

/*
requireCrop keeps only records with a crop; it filters in place by reslicing.
*/
type requireCrop struct{}

func (requireCrop) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, r := range in {
		if r.Crop != "" {
			out = append(out, r)
		}
	}
	return out
}

type counter struct{ calls *int32 }

func (t counter) Apply(in []records.Record) []records.Record {
	atomic.AddInt32(t.calls, 1)
	return in
}

func TestChainApply_CompositionOrder(t *testing.T) {
	in := []records.Record{{Barcode: "B"}}
	c := Chain[records.Record]{setBarcode{"1"}, setBarcode{"2"}, setBarcode{"3"}}
	out := c.Apply(in)
	if out[0].Barcode != "B123" {
		t.Fatalf("composition order: got %q want %q", out[0].Barcode, "B123")
	}
}

func TestChainApply_FilterThenMutate(t *testing.T) {
	in := []records.Record{
		{Crop: "corn", Barcode: "1"},
		{Crop: "", Barcode: "2"},
		{Crop: "soy", Barcode: "3"},
	}
	c := Chain[records.Record]{requireCrop{}, setBarcode{"!"}}
	out := c.Apply(append([]records.Record(nil), in...))
	if len(out) != 2 {
		t.Fatalf("len(out)=%d; want 2", len(out))
	}
	if out[0].Barcode != "1!" || out[1].Barcode != "3!" {
		t.Fatalf("unexpected survivors %#v", out)
	}
}

func TestChainApply_NilAndEmptyChain(t *testing.T) {
	in := []records.Record{{Barcode: "a"}, {Barcode: "b"}}

	var cNil Chain[records.Record]
	outNil := cNil.Apply(in)
	if !reflect.DeepEqual(outNil, in) || &outNil[0] != &in[0] {
		t.Fatalf("nil chain should return the input slice unchanged")
	}
	if out := (Chain[records.Record]{}).Apply(in); !reflect.DeepEqual(out, in) {
		t.Fatalf("empty chain mutated output")
	}
}

func TestChainApply_TransformerCalledOnce(t *testing.T) {
	var calls int32
	c := Chain[records.Raw]{
		counter2{&calls}, counter2{&calls},
		Func[records.Raw](func(in []records.Raw) []records.Raw { atomic.AddInt32(&calls, 1); return in }),
	}
	_ = c.Apply([]records.Raw{{Line: 2}})
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("calls=%d; want 3", got)
	}

	var recCalls int32
	_ = Chain[records.Record]{counter{&recCalls}}.Apply(nil)
	if recCalls != 1 {
		t.Fatalf("record chain calls=%d; want 1", recCalls)
	}
}

type counter2 struct{ calls *int32 }

func (t counter2) Apply(in []records.Raw) []records.Raw {
	atomic.AddInt32(t.calls, 1)
	return in
}
