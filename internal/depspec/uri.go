package depspec

import (
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
	"github.com/pkgcraft/go-pkgcraft/internal/perr"
)

// Uri is a SRC_URI leaf: a fetch URL plus an optional local rename,
// legal only under EAPIs with FeatureSrcURIRenames (spec §4.D/§4.B).
type Uri struct {
	URI       string
	Rename    string
	HasRename bool
}

func (u Uri) String() string {
	if u.HasRename {
		return u.URI + " -> " + u.Rename
	}
	return u.URI
}

// newURILeafParser returns a LeafParser bound to e, splitting the
// "uri -> rename" form. The tokenizer hands us whitespace-delimited
// tokens, so the "->" arrow and rename arrive as separate tokens that
// this parser must reassemble by peeking ahead in the raw text; to
// keep the shared grammar leaf-at-a-time, SRC_URI is instead
// pre-grouped by joinRenames before tokenization.
func newURILeafParser(e *eapi.Eapi) LeafParser[Uri] {
	return func(token string) (Uri, error) {
		if idx := strings.Index(token, "\x00"); idx >= 0 {
			if err := eapi.RequireFeature(e, eapi.FeatureSrcURIRenames); err != nil {
				return Uri{}, perr.New(perr.KindDepSet, token, 0, err.Error())
			}
			return Uri{URI: token[:idx], Rename: token[idx+1:], HasRename: true}, nil
		}
		return Uri{URI: token}, nil
	}
}

// joinRenames rewrites "<uri> -> <rename>" pairs in raw SRC_URI text
// into single NUL-joined tokens so the shared whitespace tokenizer
// treats each URI+rename pair as one leaf token.
func joinRenames(s string) string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		if i+2 < len(fields) && fields[i+1] == "->" {
			out = append(out, fields[i]+"\x00"+fields[i+2])
			i += 2
			continue
		}
		out = append(out, fields[i])
	}
	return strings.Join(out, " ")
}
