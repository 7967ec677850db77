package java

// tree-sitter-java 节点类型
const (
	kindPackageDecl        = "package_declaration"
	kindImportDecl         = "import_declaration"
	kindClassDecl          = "class_declaration"
	kindRecordDecl         = "record_declaration"
	kindEnumDecl           = "enum_declaration"
	kindInterfaceDecl      = "interface_declaration"
	kindAnnotationTypeDecl = "annotation_type_declaration"
	kindMethodDecl         = "method_declaration"
	kindConstructorDecl    = "constructor_declaration"
	kindClassBody          = "class_body"
	kindLambda             = "lambda_expression"
	kindThrows             = "throws"
	kindTry                = "try_statement"
	kindTryWithResources   = "try_with_resources_statement"
	kindCatchClause        = "catch_clause"
	kindCatchFormalParam   = "catch_formal_parameter"
	kindCatchType          = "catch_type"
	kindFinallyClause      = "finally_clause"
	kindThrowStmt          = "throw_statement"
	kindAssignment         = "assignment_expression"
	kindMethodInvocation   = "method_invocation"
	kindObjectCreation     = "object_creation_expression"
	kindLocalVarDecl       = "local_variable_declaration"
	kindVariableDeclarator = "variable_declarator"
	kindFormalParameter    = "formal_parameter"
	kindParenthesized      = "parenthesized_expression"
	kindIdentifier         = "identifier"
	kindTypeIdentifier     = "type_identifier"
	kindScopedTypeID       = "scoped_type_identifier"
	kindGenericType        = "generic_type"
)
