// Package docs provides generated OpenAPI documentation.
//
// Freestyle API
//
//	@title			Freestyle API
//	@version		1.0
//	@description	Dance practice prompts: browse, submit, moderate, favorite and ask for advice.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/freestyle
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
package docs

//go:generate swag init -g ../cmd/freestyle/serve.go -o ./swagger --parseDependency --parseInternal
