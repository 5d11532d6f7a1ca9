package backend

import (
	"encoding/json"

	"github.com/PaesslerAG/jsonpath"

	"github.com/status-im/market-game/apperrors"
)

// lookup returns the first path that resolves in doc
func lookup(doc interface{}, paths ...string) (interface{}, bool) {
	for _, path := range paths {
		v, err := jsonpath.Get(path, doc)
		if err != nil || v == nil {
			continue
		}
		return v, true
	}
	return nil, false
}

// payload unwraps {success, data} envelopes and returns bare payloads as is
func payload(doc interface{}) interface{} {
	if v, ok := lookup(doc, "$.data"); ok {
		return v
	}
	return doc
}

// convert re-encodes a generic JSON value into out
func convert(v interface{}, out interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Wrap(apperrors.KindMalformedUpstreamData, err, "unexpected backend payload")
	}
	return nil
}

// decodeAuth accepts {token, user} and {success, data: {token, ...user}}
func decodeAuth(doc interface{}) (AuthResult, error) {
	token, ok := lookup(doc, "$.token", "$.data.token")
	tokenStr, isString := token.(string)
	if !ok || !isString || tokenStr == "" {
		return AuthResult{}, apperrors.New(apperrors.KindMalformedUpstreamData, "auth response has no token")
	}

	userDoc, ok := lookup(doc, "$.user", "$.data.user")
	if !ok {
		userDoc = payload(doc)
	}

	var raw rawUser
	if err := convert(userDoc, &raw); err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: tokenStr, User: raw.user()}, nil
}

func decodeUser(doc interface{}) (User, error) {
	userDoc, ok := lookup(doc, "$.data.user", "$.user")
	if !ok {
		userDoc = payload(doc)
	}
	if _, isObject := userDoc.(map[string]interface{}); !isObject {
		return User{}, apperrors.New(apperrors.KindMalformedUpstreamData, "user response is not an object")
	}

	var raw rawUser
	if err := convert(userDoc, &raw); err != nil {
		return User{}, err
	}
	return raw.user(), nil
}

// decodeList returns the records of a list payload
func decodeList(doc interface{}) ([]interface{}, error) {
	list, ok := payload(doc).([]interface{})
	if !ok {
		return nil, apperrors.New(apperrors.KindMalformedUpstreamData, "expected a list payload")
	}
	return list, nil
}
