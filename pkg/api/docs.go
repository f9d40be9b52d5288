// Package api provides REST API handlers for swapwatch
// @title swapwatch API
// @version 1.0
// @description REST API for querying confirmed Uniswap V3 DAI/USDC swaps observed by swapwatch
// @contact.name API Support
// @contact.url https://github.com/goran-ethernal/swapwatch
// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @basePath /api/v1
// @schemes http https
package api
