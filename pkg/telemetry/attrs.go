package telemetry

import (
	"strconv"

	"go.opentelemetry.io/otel/attribute"
)

func methodAttr(method string) attribute.KeyValue {
	return attribute.String("method", method)
}

func routeAttr(route string) attribute.KeyValue {
	return attribute.String("route", route)
}

func statusAttr(status int) attribute.KeyValue {
	return attribute.String("status", strconv.Itoa(status))
}

func modeAttr(mode string) attribute.KeyValue {
	return attribute.String("mode", mode)
}

func decisionAttr(decision string) attribute.KeyValue {
	return attribute.String("decision", decision)
}

func usecaseAttr(name string) attribute.KeyValue {
	return attribute.String("usecase", name)
}

func outcomeAttr(outcome string) attribute.KeyValue {
	return attribute.String("outcome", outcome)
}
