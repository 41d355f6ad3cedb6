/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package databasemock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDBClientConcurrentCalls(t *testing.T) {
	provider := NewStaticDBProvider(nil)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := provider.GetDBClient("runtime")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	calls := provider.GetDBClientCalls()
	assert.Len(t, calls, 32)
	assert.Equal(t, "runtime", calls[0])
}
