// Package http provides request and response helpers for chi handlers.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//	state := req.Query("state", "all")
//	key   := req.RouteParam("key")
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(data)             // 200 {"data": ...}
//	res.Error(400, "bad input")   // {"message": "bad input"}
//	res.NotFound()                // 404 {"message": "Not found."}
//	res.ValidationError(errs)     // 422 {"errors": {"field": ["msg"]}}
package http
