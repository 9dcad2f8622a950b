package cache

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// StartCacheSpan opens a sentry span for a cache operation. It returns nil
// when the context carries no sentry hub.
func StartCacheSpan(ctx context.Context, entity, operation string, params map[string]interface{}) *sentry.Span {
	if sentry.GetHubFromContext(ctx) == nil {
		return nil
	}

	span := sentry.StartSpan(ctx, "cache."+entity+"."+operation)
	span.Description = "cache." + entity + "." + operation
	span.Op = "db.cache"
	span.SetData("entity", entity)
	span.SetData("operation", operation)
	for k, v := range params {
		span.SetData(k, v)
	}
	return span
}

// FinishSpan records whether the lookup hit and closes the span
func FinishSpan(span *sentry.Span, hit bool) {
	if span == nil {
		return
	}
	span.SetData("hit", hit)
	span.Status = sentry.SpanStatusOK
	span.Finish()
}
