package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// LocalSignFunc returns a self-contained SignFunc that derives headers from an
// HMAC over the request parameters. It satisfies the signing contract without
// an external capability; deployments that talk to the real remote inject
// their own SignFunc instead.
func LocalSignFunc() SignFunc {
	return func(uri string, body interface{}, a1, b1 string) (map[string]string, error) {
		ts := fmt.Sprintf("%d", time.Now().UnixMilli())

		var bodyJSON []byte
		if body != nil {
			var err error
			bodyJSON, err = json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("unserializable body: %w", err)
			}
		}

		mac := hmac.New(sha256.New, []byte(a1+b1))
		mac.Write([]byte(uri))
		mac.Write([]byte(ts))
		mac.Write(bodyJSON)
		signature := "XYW_" + base64.StdEncoding.EncodeToString(mac.Sum(nil))

		common, err := json.Marshal(map[string]string{
			"s0": "web",
			"s1": b1,
			"x2": ts,
		})
		if err != nil {
			return nil, err
		}

		return map[string]string{
			HeaderSignature: signature,
			HeaderTimestamp: ts,
			HeaderComposite: base64.StdEncoding.EncodeToString(common),
		}, nil
	}
}
