/*
Package hooksdk holds the wire types of the docqa claims service and a small
client for it.

The identity provider calls the service through two auth hooks:

  - POST /v1/hooks/custom-access-token receives AccessTokenHookRequest and
    answers AccessTokenHookResponse.
  - POST /v1/hooks/user-created receives UserCreatedHookRequest and answers
    an empty object.

Both are signed with Standard Webhooks headers (see pkg/webhookx). Hook
failures are reported as HookError, which serializes to the provider's
{"error":{"http_code":N,"message":"..."}} shape.

Client replays hooks the way the provider would and reads the end-user and
health endpoints:

	c := hooksdk.NewClient("http://localhost:8080", hookSecret)
	claims, err := c.CustomAccessToken(ctx, req)
	me, err := c.Me(ctx, accessToken)
*/
package hooksdk
