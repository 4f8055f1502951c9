// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package methodoverride

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fango-http/fango"
)

func TestRewriteOverridesViaHeader(t *testing.T) {
	rewrite := Rewrite()
	req := fango.NewRequest(t.Context(), fango.POST, "/widgets/1")
	req.Headers.Insert("X-HTTP-Method-Override", "DELETE")

	rewrite(req)

	assert.Equal(t, fango.DELETE, req.Method)
	assert.Equal(t, "POST", GetOriginalMethod(req))
}

func TestRewriteOverridesViaQueryParam(t *testing.T) {
	rewrite := Rewrite()
	req := fango.NewRequest(t.Context(), fango.POST, "/widgets/1?_method=put")

	rewrite(req)

	assert.Equal(t, fango.PUT, req.Method)
}

func TestRewriteIgnoresDisallowedMethod(t *testing.T) {
	rewrite := Rewrite(WithAllow("PUT"))
	req := fango.NewRequest(t.Context(), fango.POST, "/widgets/1")
	req.Headers.Insert("X-HTTP-Method-Override", "DELETE")

	rewrite(req)

	assert.Equal(t, fango.POST, req.Method)
}

func TestRewriteIgnoresNonEligibleIncomingMethod(t *testing.T) {
	rewrite := Rewrite()
	req := fango.NewRequest(t.Context(), fango.GET, "/widgets/1")
	req.Headers.Insert("X-HTTP-Method-Override", "DELETE")

	rewrite(req)

	assert.Equal(t, fango.GET, req.Method)
}

func TestRewriteRequiresCSRFTokenWhenConfigured(t *testing.T) {
	rewrite := Rewrite(WithRequireCSRFToken(true))

	unverified := fango.NewRequest(t.Context(), fango.POST, "/widgets/1")
	unverified.Headers.Insert("X-HTTP-Method-Override", "DELETE")
	rewrite(unverified)
	assert.Equal(t, fango.POST, unverified.Method)

	verified := fango.NewRequest(t.Context(), fango.POST, "/widgets/1")
	verified.Headers.Insert("X-HTTP-Method-Override", "DELETE")
	Verified(verified)
	rewrite(verified)
	assert.Equal(t, fango.DELETE, verified.Method)
}

func TestRewriteRequiresNonEmptyBodyWhenConfigured(t *testing.T) {
	rewrite := Rewrite(WithRespectBody(true))
	req := fango.NewRequest(t.Context(), fango.POST, "/widgets/1")
	req.Headers.Insert("X-HTTP-Method-Override", "DELETE")

	rewrite(req)
	assert.Equal(t, fango.POST, req.Method)

	req.Body = []byte("{}")
	rewrite(req)
	assert.Equal(t, fango.DELETE, req.Method)
}
