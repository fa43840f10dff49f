package callibella

// MergeDocs merges a freshly received document into the one currently
// displayed. For every span id present in both, the previous document's
// active-variant index is carried onto the incoming span, so a user's manual
// register selection survives the backend re-emitting the document during
// streaming. Spans new to the incoming document keep their own default
// index; spans that vanished are dropped with the rest of the previous
// document. The result is always a fresh copy shaped like incoming.
//
// A preserved index that is out of range for the incoming span's variant
// list is kept as-is; rendering degrades to the placeholder.
func MergeDocs(prev, incoming *InteractiveDoc) *InteractiveDoc {
	if incoming == nil {
		return nil
	}
	out := incoming.Clone()
	if prev == nil {
		return out
	}
	for id, sp := range out.Spans {
		if old := prev.Span(id); old != nil {
			sp.ActiveVariantIndex = old.ActiveVariantIndex
		}
	}
	return out
}

// ApplyContentFilter reassigns every span whose active variant is vulgar to
// its first non-vulgar variant. Spans with no non-vulgar variant keep their
// selection. The pass is idempotent: when no span is affected the input
// document is returned unchanged (same pointer), so downstream consumers can
// detect a no-op by identity.
func ApplyContentFilter(doc *InteractiveDoc) *InteractiveDoc {
	if doc == nil {
		return nil
	}
	reassign := make(map[string]int)
	for id, sp := range doc.Spans {
		v := sp.ActiveVariant()
		if v == nil || v.Register != RegisterVulgar {
			continue
		}
		for i := range sp.Variants {
			if sp.Variants[i].Register != RegisterVulgar {
				reassign[id] = i
				break
			}
		}
	}
	if len(reassign) == 0 {
		return doc
	}
	out := doc.Clone()
	for id, idx := range reassign {
		out.Spans[id].ActiveVariantIndex = idx
	}
	return out
}
