package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gilby125/hotel-availability/api"
	"github.com/gilby125/hotel-availability/engine"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func newServer(svc api.HotelService, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"hotel-availability-mcp",
		version,
		server.WithLogging(),
	)

	s.AddTool(mcp.NewTool("hotel_availability",
		mcp.WithDescription("Validate an AvailRQ XML document, search the supplier and return priced hotel offers"),
		mcp.WithString("xml",
			mcp.Required(),
			mcp.Description("The AvailRQ XML document"),
		),
	), availabilityHandler(svc))

	s.AddTool(mcp.NewTool("validate_hotel_request",
		mcp.WithDescription("Validate an AvailRQ XML document and return the normalized request or the list of rule violations"),
		mcp.WithString("xml",
			mcp.Required(),
			mcp.Description("The AvailRQ XML document"),
		),
	), parseHandler(svc, engine.KindSearchRequest))

	s.AddTool(mcp.NewTool("xml_to_json",
		mcp.WithDescription("Convert any XML document to JSON: attributes become @-prefixed keys, repeated tags become arrays, and numbers and booleans are typed"),
		mcp.WithString("xml",
			mcp.Required(),
			mcp.Description("The XML document"),
		),
	), parseHandler(svc, engine.KindXMLToJSON))

	return s
}

func xmlArgument(request mcp.CallToolRequest) (string, error) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", errors.New("Invalid arguments format")
	}
	doc, _ := argsMap["xml"].(string)
	if doc == "" {
		return "", errors.New("xml argument is required")
	}
	return doc, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error marshaling response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func availabilityHandler(svc api.HotelService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, err := xmlArgument(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		resp, err := svc.Process(ctx, []byte(doc))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(resp)
	}
}

func parseHandler(svc api.HotelService, kind engine.Kind) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, err := xmlArgument(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result := svc.Parse(kind, []byte(doc))
		out, err := jsonResult(result)
		if err != nil || out.IsError {
			return out, err
		}
		out.IsError = !result.OK()
		return out, nil
	}
}
