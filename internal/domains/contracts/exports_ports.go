package contracts

import contractports "counter-contract/go-backend/internal/domains/contracts/ports"

type Storage = contractports.Storage
type Timestamp = contractports.Timestamp
type BlockInfo = contractports.BlockInfo
type ContractInfo = contractports.ContractInfo
type Env = contractports.Env
type MessageInfo = contractports.MessageInfo
type Attribute = contractports.Attribute
type CategorizedError = contractports.CategorizedError
