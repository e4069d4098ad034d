package respond

import (
	"strconv"
	"strings"
)

// mediaRange is one element of an Accept header.
type mediaRange struct {
	typ     string
	subtype string
	q       float64
}

// parseAccept splits an Accept header into media ranges. Missing subtypes
// become "*"; missing, malformed or out-of-range q values become 1.0.
func parseAccept(header string) []mediaRange {
	var ranges []mediaRange
	for part := range strings.SplitSeq(header, ",") {
		params := strings.Split(part, ";")
		mt := strings.ToLower(strings.TrimSpace(params[0]))
		if mt == "" {
			continue
		}
		r := mediaRange{q: 1.0}
		if typ, sub, ok := strings.Cut(mt, "/"); ok {
			r.typ, r.subtype = strings.TrimSpace(typ), strings.TrimSpace(sub)
		} else {
			r.typ, r.subtype = mt, "*"
		}
		for _, p := range params[1:] {
			k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
			if !ok || strings.TrimSpace(strings.ToLower(k)) != "q" {
				continue
			}
			if q, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && q >= 0 && q <= 1 {
				r.q = q
			}
		}
		ranges = append(ranges, r)
	}
	return ranges
}

// specificity ranks how precisely r matches the offered type/subtype, or -1 when it does not match.
// Exact problem types outrank exact base types so application/problem+cbor beats application/cbor.
func (r mediaRange) specificity(typ, subtype string) int {
	switch {
	case r.typ == "*" && r.subtype == "*":
		return 0
	case r.typ != typ:
		return -1
	case r.subtype == "*":
		return 1
	case strings.HasPrefix(r.subtype, "*+"):
		if strings.HasSuffix(subtype, r.subtype[1:]) {
			return 2
		}
		return -1
	case r.subtype == subtype:
		if strings.HasPrefix(subtype, "problem+") {
			return 4
		}
		return 3
	default:
		return -1
	}
}

type preference struct {
	q    float64
	spec int
	ok   bool
}

func (p preference) beats(o preference) bool {
	if !p.ok {
		return false
	}
	if !o.ok {
		return true
	}
	if p.q != o.q {
		return p.q > o.q
	}
	return p.spec > o.spec
}

// preferenceFor returns the best acceptance of any of the offered subtypes of "application".
// Each offered type takes the q of its most specific matching range; q=0 excludes it.
func preferenceFor(ranges []mediaRange, subtypes ...string) preference {
	var best preference
	for _, sub := range subtypes {
		match := preference{spec: -1}
		for _, r := range ranges {
			if s := r.specificity("application", sub); s > match.spec {
				match = preference{q: r.q, spec: s}
			}
		}
		match.ok = match.spec >= 0 && match.q > 0
		if match.beats(best) {
			best = match
		}
	}
	return best
}

// selectFormat reports whether the Accept header prefers CBOR over JSON.
// JSON wins ties, an empty header and headers accepting neither.
func selectFormat(accept string) bool {
	if strings.TrimSpace(accept) == "" {
		return false
	}
	ranges := parseAccept(accept)
	cbor := preferenceFor(ranges, "problem+cbor", "cbor")
	json := preferenceFor(ranges, "problem+json", "json")
	return cbor.beats(json)
}
