package provider

import "errors"

var ErrProviderNotSupported = errors.New("provider is not supported")

// Registry resolves payment rails by their stable numeric code. M-Pesa is
// the only rail wired today, but the code also travels on callback log rows,
// so lookups stay code-keyed rather than hardwired to Daraja.
type Registry struct {
	byCode map[int32]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	byCode := make(map[int32]Provider, len(providers))
	for _, prv := range providers {
		byCode[prv.Code()] = prv
	}
	return &Registry{byCode: byCode}
}

func (r *Registry) Get(code int32) (Provider, error) {
	prv, ok := r.byCode[code]
	if !ok {
		return nil, ErrProviderNotSupported
	}
	return prv, nil
}
