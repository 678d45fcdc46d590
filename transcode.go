package metaform

import (
	stderrors "errors"
	"io"

	sfjson "github.com/elastic/go-structform/json"
	"go.uber.org/zap"

	"github.com/wippyai/metaform/errors"
)

// Transcode streams the JSON document in src into its form+JSON encoding
// on dst without materializing a value tree. The document must be a JSON
// object; null transcodes to an empty body. JSON null members are dropped
// or rendered per the same policy Marshal applies to absent fields.
func Transcode(dst io.Writer, src []byte) error {
	vs := NewVisitor(dst)
	if err := sfjson.Parse(src, vs); err != nil {
		return transcodeErr(err)
	}
	if err := vs.Finish(); err != nil {
		return err
	}
	Logger().Debug("transcoded JSON body", zap.Int("json_bytes", len(src)))
	return nil
}

// transcodeErr keeps encoding errors surfaced through the parser intact
// and wraps parser-native failures as syntax errors.
func transcodeErr(err error) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e
	}
	return errors.Wrap(errors.PhaseTranscode, errors.KindSyntax, err, "parsing JSON input")
}
