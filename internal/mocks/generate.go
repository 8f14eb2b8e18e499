package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/fixture --output domain/fixture --outpkg fixturemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Sink --dir ../domain/fixture --output domain/fixture --outpkg fixturemock --filename sink_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name FixtureProvider --dir ../usecase --output usecase --outpkg usecasemock --filename fixture_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ReferenceProvider --dir ../usecase --output usecase --outpkg usecasemock --filename reference_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name BackgroundPersister --dir ../usecase --output usecase --outpkg usecasemock --filename background_persister_mock.go
