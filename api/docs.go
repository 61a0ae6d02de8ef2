package api

// @title hide-comments API
// @version v1.0.0
// @description HTTP adapter for the comment anchoring engine: stateless text operations, workspace file toggles and the orphaned comment archive.

// @contact.name API Support
// @contact.url https://github.com/Serendipbrity/hide-comments-extension/issues

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8787
// @BasePath /api
// @schemes http
// @query.collection.format multi
