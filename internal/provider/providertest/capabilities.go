package providertest

import (
	"context"

	"findata/internal/provider"
	"findata/internal/record"
)

// Filings is a scriptable Filings fake.
type Filings struct {
	ProviderName string
	FilingsFunc  func(ctx context.Context, symbol, formType string, limit int) ([]record.SecFiling, error)
	DocumentFunc func(ctx context.Context, filing record.SecFiling) ([]byte, error)
}

func (f *Filings) Name() string { return f.ProviderName }

func (f *Filings) Filings(ctx context.Context, symbol, formType string, limit int) ([]record.SecFiling, error) {
	if f.FilingsFunc == nil {
		return nil, provider.ErrUnsupported
	}
	return f.FilingsFunc(ctx, symbol, formType, limit)
}

func (f *Filings) FilingDocument(ctx context.Context, filing record.SecFiling) ([]byte, error) {
	if f.DocumentFunc == nil {
		return nil, provider.ErrUnsupported
	}
	return f.DocumentFunc(ctx, filing)
}

// ESG is a scriptable ESG fake.
type ESG struct {
	ProviderName string
	EsgFunc      func(ctx context.Context, symbol string) (record.EsgScore, error)
}

func (e *ESG) Name() string { return e.ProviderName }

func (e *ESG) EsgScore(ctx context.Context, symbol string) (record.EsgScore, error) {
	if e.EsgFunc == nil {
		return record.EsgScore{}, provider.ErrUnsupported
	}
	return e.EsgFunc(ctx, symbol)
}

// Ownership is a scriptable Ownership fake.
type Ownership struct {
	ProviderName     string
	InsiderFunc      func(ctx context.Context, symbol string, limit int) ([]record.InsiderTransaction, error)
	InstitutionsFunc func(ctx context.Context, symbol string) ([]record.InstitutionalHolding, error)
	ExecutivesFunc   func(ctx context.Context, symbol string) ([]record.Executive, error)
}

func (o *Ownership) Name() string { return o.ProviderName }

func (o *Ownership) InsiderTransactions(ctx context.Context, symbol string, limit int) ([]record.InsiderTransaction, error) {
	if o.InsiderFunc == nil {
		return nil, provider.ErrUnsupported
	}
	return o.InsiderFunc(ctx, symbol, limit)
}

func (o *Ownership) InstitutionalHolders(ctx context.Context, symbol string) ([]record.InstitutionalHolding, error) {
	if o.InstitutionsFunc == nil {
		return nil, provider.ErrUnsupported
	}
	return o.InstitutionsFunc(ctx, symbol)
}

func (o *Ownership) Executives(ctx context.Context, symbol string) ([]record.Executive, error) {
	if o.ExecutivesFunc == nil {
		return nil, provider.ErrUnsupported
	}
	return o.ExecutivesFunc(ctx, symbol)
}
